// Package uid derives content-based identifiers for ledger records.
package uid

import (
	"crypto/sha1" //nolint:gosec // identity digest, not a security boundary
	"encoding/base64"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/cleared-dev/saldo/internal/model"
)

// Identify returns the identifier of a record: the SHA-1 digest of its
// (date, customer, usage, type, value) tuple, base64 encoded. Saldo, valuta
// and group do not take part.
func Identify(tx model.Transaction) string {
	h := sha1.New() //nolint:gosec
	writeField(h, tx.Date.Format(model.DateFormat))
	writeField(h, canonical(tx.Customer))
	writeField(h, canonical(tx.Usage))
	writeField(h, canonical(tx.Type))
	writeField(h, strconv.FormatInt(tx.Value, 10))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

// Stamp sets UID on every record in place.
func Stamp(txs []model.Transaction) {
	for i := range txs {
		txs[i].UID = Identify(txs[i])
	}
}

// canonical strips incidental formatting: surrounding whitespace and
// differing Unicode compositions of the same text.
func canonical(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// writeField writes "<len>:<bytes>" so that field boundaries cannot shift.
func writeField(h hash.Hash, s string) {
	buf := strconv.AppendInt(nil, int64(len(s)), 10)
	buf = append(buf, ':')
	buf = append(buf, s...)
	h.Write(buf)
}

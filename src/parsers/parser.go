// backend/src/parsers/parser.go
package parsers

import (
	"errors"
	"io"

	"github.com/username/vendalytics/backend/src/models"
)

// ErrInvalidFile marks a structural problem with the uploaded file itself
// (unreadable, wrong or missing header columns, unparseable values). Handlers
// map it to 400.
var ErrInvalidFile = errors.New("arquivo inválido")

// Parser turns an uploaded file into raw sale rows. Parsers only deal with
// file structure; field defaulting and identifier validation happen later in
// the pipeline.
type Parser interface {
	Parse(file io.Reader) ([]models.RawSaleRecord, error)
}

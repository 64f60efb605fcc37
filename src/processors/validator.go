package processors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/username/vendalytics/backend/src/models"
)

// ErrInvalidData marks a record missing one of its mandatory identifiers.
// Handlers map it to 422.
var ErrInvalidData = errors.New("dados inválidos")

// ErrInconsistentRecord marks an internal inconsistency: a resolved reference
// entity is absent after identifier validation passed. This is a bug, not a
// user-facing condition.
var ErrInconsistentRecord = errors.New("registro inconsistente")

// ValidateIdentifiers rejects a raw row whose mandatory identifiers are
// missing or blank. Checks run in entity construction order (customer,
// product, seller, transaction) and stop at the first failure, so only one
// identifier is ever reported per record.
func ValidateIdentifiers(raw models.RawSaleRecord) error {
	checks := []struct {
		field string
		value *string
	}{
		{"cliente_id", raw.CustomerID},
		{"produto_id", raw.ProductID},
		{"vendedor_id", raw.SellerID},
		{"id_transacao", raw.TransactionID},
	}
	for _, c := range checks {
		if c.value == nil || strings.TrimSpace(*c.value) == "" {
			return fmt.Errorf("%w: campo obrigatório %q ausente ou em branco", ErrInvalidData, c.field)
		}
	}
	return nil
}

// ValidateReferences is a defensive gate: after validation has passed, every
// sale must carry its three resolved entities.
func ValidateReferences(sale models.Sale) error {
	if sale.Customer == nil || sale.Product == nil || sale.Seller == nil {
		return fmt.Errorf("%w: venda %s sem referência resolvida", ErrInconsistentRecord, sale.ID)
	}
	return nil
}

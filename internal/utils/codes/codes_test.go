package codes

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratedFormats(t *testing.T) {
	inv, err := InvoiceNumber()
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^INV-[A-Z0-9]{8}$`), inv)

	pur, err := PurchaseReference()
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^PUR-[A-Z0-9]{8}$`), pur)

	key, err := ApprovalKey()
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{8}$`), key)
}

func TestRandom_RejectsNonPositive(t *testing.T) {
	_, err := Random(0)
	assert.Error(t, err)
}

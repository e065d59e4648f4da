package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/commitlens/commitlens-cli/api/schemas"
	"github.com/commitlens/commitlens-cli/internal/config"
)

func newTestDetector() *Detector {
	return NewDetector(config.SignatureConfig{}, zap.NewNop())
}

func TestDetect_KeywordPerCategory(t *testing.T) {
	tests := []struct {
		name string
		diff string
		want schemas.Category
	}{
		{"hr client symbol", "+ client := HRServiceClient{}", schemas.CategoryHR},
		{"payment call", "+ resp := processPayment(card)", schemas.CategoryPayment},
		{"support ticket", "+ id, err := createTicket(req)", schemas.CategorySupport},
		{"inventory update", "+ if err := updateStock(sku, n); err != nil {", schemas.CategoryInventory},
		{"approval flow", "+ status := getApprovalStatus(id)", schemas.CategoryApproval},
	}

	d := newTestDetector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, []schemas.Category{tt.want}, d.Detect(tt.diff))
		})
	}
}

func TestDetect_HostnameMapsToCategory(t *testing.T) {
	d := newTestDetector()

	got := d.Detect(`+ url := "https://helpdesk.internal/v2/tickets"`)
	assert.Equal(t, []schemas.Category{schemas.CategorySupport}, got)
}

func TestDetect_MultipleCategoriesNoDuplicates(t *testing.T) {
	d := newTestDetector()
	diff := "+ processPayment(card)\n+ refundTransaction(tx)\n+ updateStock(sku)\n+ https://billing-api.internal/charge"

	got := d.Detect(diff)
	assert.Equal(t, []schemas.Category{schemas.CategoryPayment, schemas.CategoryInventory}, got,
		"set semantics with first-match ordering")
}

func TestDetect_NoMatchesYieldsEmptySet(t *testing.T) {
	d := newTestDetector()
	assert.Empty(t, d.Detect("@@ -1 +1 @@\n-x\n+y"))
	assert.Empty(t, d.Detect(""))
}

func TestDetect_CaseSensitive(t *testing.T) {
	d := newTestDetector()
	assert.Empty(t, d.Detect("+ PROCESSPAYMENT()"), "keyword matching is case-sensitive")
}

// Adding more category evidence to a diff never removes previously detected
// categories, and identical input yields identical output.
func TestDetect_MonotonicAndDeterministic(t *testing.T) {
	d := newTestDetector()

	base := "+ processPayment(card)"
	baseCats := d.Detect(base)

	grown := base + "\n+ createTicket(req)\n+ getEmployee(id)"
	grownCats := d.Detect(grown)

	for _, cat := range baseCats {
		assert.Contains(t, grownCats, cat, "growing the diff must not lose categories")
	}
	assert.Equal(t, grownCats, d.Detect(grown), "repeated identical input is stable")
}

func TestNewDetector_ConfigOverridesTables(t *testing.T) {
	d := NewDetector(config.SignatureConfig{
		Keywords:  map[string][]string{"ledger": {"postLedgerEntry"}},
		Hostnames: map[string]string{"ledger.internal": "ledger"},
	}, nil)

	assert.Equal(t, []schemas.Category{"ledger"}, d.Detect("+ postLedgerEntry(tx)"))
	assert.Equal(t, []schemas.Category{"ledger"}, d.Detect("+ https://ledger.internal/entries"))
	assert.Empty(t, d.Detect("+ processPayment(card)"), "overridden tables replace the built-ins")
}

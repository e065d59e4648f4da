// File: internal/signature/detector.go
package signature

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/commitlens/commitlens-cli/api/schemas"
	"github.com/commitlens/commitlens-cli/internal/config"
)

// categoryRule binds one category to its lexical evidence.
type categoryRule struct {
	category schemas.Category
	keywords []string
}

// hostRule maps a known hostname literal to a category.
type hostRule struct {
	host     string
	category schemas.Category
}

// defaultRules is the built-in keyword table. The entries are heuristic
// literals, not a parser; false positives and negatives are acceptable.
var defaultRules = []categoryRule{
	{schemas.CategoryHR, []string{
		"hr-api", "HRServiceClient", "EmployeeManager", "PayrollAPI",
		"getEmployee", "updateSalary", "getOrganization", "hr-client", "employee-api",
	}},
	{schemas.CategoryPayment, []string{
		"payment", "PaymentProcessor", "BillingManager", "RefundService",
		"processPayment", "refundTransaction", "validateCard", "payment-gateway", "billing-client",
	}},
	{schemas.CategorySupport, []string{
		"support-api", "TicketManager", "SupportAPI", "CustomerService",
		"createTicket", "updateStatus", "searchTickets", "support-client", "ticket-api",
	}},
	{schemas.CategoryInventory, []string{
		"inventory", "InventoryManager", "StockService", "WarehouseAPI",
		"updateStock", "checkAvailability", "reserveItems", "inventory-client", "warehouse-api",
	}},
	{schemas.CategoryApproval, []string{
		"approval", "ApprovalManager", "WorkflowEngine", "ProcessAPI",
		"submitRequest", "approveRequest", "getApprovalStatus", "approval-client", "workflow-engine",
	}},
}

// defaultHosts is the built-in hostname table.
var defaultHosts = []hostRule{
	{"hr-api.company.com", schemas.CategoryHR},
	{"internal-hr.example.com", schemas.CategoryHR},
	{"payment.company.com", schemas.CategoryPayment},
	{"billing-api.internal", schemas.CategoryPayment},
	{"support-api.company.com", schemas.CategorySupport},
	{"helpdesk.internal", schemas.CategorySupport},
	{"inventory-api.company.com", schemas.CategoryInventory},
	{"stock.internal", schemas.CategoryInventory},
	{"approval-api.company.com", schemas.CategoryApproval},
	{"workflow.internal", schemas.CategoryApproval},
}

// Detector scans diff text for lexical evidence of known external-system
// integrations. It is stateless and safe for concurrent use.
type Detector struct {
	rules  []categoryRule
	hosts  []hostRule
	logger *zap.Logger
}

// NewDetector builds a detector from configuration. Empty tables fall back to
// the built-in literals.
func NewDetector(cfg config.SignatureConfig, logger *zap.Logger) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}

	d := &Detector{
		rules:  defaultRules,
		hosts:  defaultHosts,
		logger: logger.Named("signature_detector"),
	}

	if len(cfg.Keywords) > 0 {
		// Map iteration order is random; sort categories so detection order
		// stays deterministic across runs.
		cats := make([]string, 0, len(cfg.Keywords))
		for cat := range cfg.Keywords {
			cats = append(cats, cat)
		}
		sort.Strings(cats)

		rules := make([]categoryRule, 0, len(cats))
		for _, cat := range cats {
			rules = append(rules, categoryRule{schemas.Category(cat), cfg.Keywords[cat]})
		}
		d.rules = rules
	}

	if len(cfg.Hostnames) > 0 {
		hostnames := make([]string, 0, len(cfg.Hostnames))
		for host := range cfg.Hostnames {
			hostnames = append(hostnames, host)
		}
		sort.Strings(hostnames)

		hosts := make([]hostRule, 0, len(hostnames))
		for _, host := range hostnames {
			hosts = append(hosts, hostRule{host, schemas.Category(cfg.Hostnames[host])})
		}
		d.hosts = hosts
	}

	return d
}

// Detect returns the categories whose keywords or mapped hostnames occur
// anywhere in the diff text. Matching is case-sensitive substring search,
// independent per category; the result preserves first-match order and holds
// no duplicates. An empty result is normal, never an error.
func (d *Detector) Detect(diff string) []schemas.Category {
	var detected []schemas.Category
	seen := make(map[schemas.Category]bool)

	for _, rule := range d.rules {
		for _, kw := range rule.keywords {
			if strings.Contains(diff, kw) {
				if !seen[rule.category] {
					seen[rule.category] = true
					detected = append(detected, rule.category)
				}
				break
			}
		}
	}

	for _, hr := range d.hosts {
		if seen[hr.category] {
			continue
		}
		if strings.Contains(diff, hr.host) {
			seen[hr.category] = true
			detected = append(detected, hr.category)
		}
	}

	if len(detected) > 0 {
		d.logger.Debug("External API signatures detected",
			zap.Int("count", len(detected)),
			zap.Any("categories", detected),
		)
	}
	return detected
}

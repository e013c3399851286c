// Package resolve answers semantic data requests through an ordered chain
// of progressively broader strategies. Each tier is sandboxed: a store
// error, a timeout, or a panic inside a tier means "this tier found
// nothing" and the chain moves on. The final tier is a constant response,
// so resolution always terminates with a structured, provenance-tagged
// result.
package resolve

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jeethk/finsight/internal/database/repository"
)

// Kind is the semantic request type.
type Kind string

const (
	KindClient    Kind = "client_verification"
	KindFinancial Kind = "financial_summary"
	KindSales     Kind = "sales_data"
	KindCash      Kind = "cash_data"
	KindInventory Kind = "inventory_data"
	KindOverview  Kind = "business_overview"
	KindGeneric   Kind = "generic"
)

// kindKeywords maps request-text terms to kinds, checked in order so the
// more specific intents win.
var kindKeywords = []struct {
	kind  Kind
	terms []string
}{
	{KindClient, []string{"client", "customer", "verification", "party"}},
	{KindFinancial, []string{"financial", "profit", "loss", "income"}},
	{KindSales, []string{"sales", "selling", "revenue", "transactions"}},
	{KindCash, []string{"cash", "balance", "bank", "funds"}},
	{KindInventory, []string{"inventory", "stock", "products", "mobile", "samsung"}},
	{KindOverview, []string{"business", "summary", "overview", "general"}},
}

// KindFromString maps free request text to a semantic kind. Unrecognised
// text resolves to KindGeneric, never an error.
func KindFromString(s string) Kind {
	lower := strings.ToLower(s)
	for _, kk := range kindKeywords {
		for _, term := range kk.terms {
			if strings.Contains(lower, term) {
				return kk.kind
			}
		}
	}
	return KindGeneric
}

// Confidence grades how directly a result answers the request.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
	ConfidenceNone   Confidence = "None"
)

// Provenance records which strategy produced a result.
type Provenance struct {
	RequestID  string
	Method     string
	Confidence Confidence
}

// Request is one semantic data request. Kind may be left empty, in which
// case it is derived from Query.
type Request struct {
	Kind       Kind
	Query      string
	ClientName string
	Period     string
}

// Result is the closed product of every report the resolver can produce.
// Exactly the sections for the resolved kind are populated; Capabilities
// is set only by the emergency tier.
type Result struct {
	Provenance
	Kind      Kind
	Fulfilled bool
	Err       string

	Client       *ClientReport
	Financial    *FinancialReport
	Sales        *SalesReport
	Cash         *CashReport
	Inventory    *InventoryReport
	Overview     *OverviewReport
	Capabilities *Capabilities
}

// Resolver executes strategy chains against the store.
type Resolver struct {
	Entries *repository.EntryRepo
	Ledgers *repository.LedgerRepo
	Stock   *repository.StockRepo

	Company string
	Timeout time.Duration
	Log     zerolog.Logger
}

// Resolve answers the request. It never returns an error: the worst case
// is the emergency tier's static capability listing.
func (r *Resolver) Resolve(ctx context.Context, req Request) Result {
	kind := req.Kind
	if kind == "" || kind == KindGeneric {
		if k := KindFromString(req.Query); k != KindGeneric {
			kind = k
		} else if kind == "" {
			kind = KindGeneric
		}
	}

	id := uuid.NewString()
	log := r.Log.With().Str("request_id", id).Str("kind", string(kind)).Logger()

	var res Result
	switch kind {
	case KindClient:
		res = r.client(ctx, log, req)
	case KindFinancial:
		res = r.financial(ctx, log)
	case KindSales:
		res = r.sales(ctx, log)
	case KindCash:
		res = r.cash(ctx, log)
	case KindInventory:
		res = r.inventory(ctx, log)
	case KindOverview:
		res = r.overview(ctx, log)
	default:
		res = r.generic(ctx, log, req)
	}
	res.Kind = kind
	res.RequestID = id
	return res
}

// tier runs one strategy with a bounded context and a panic guard. Any
// failure reads as "found nothing".
func (r *Resolver) tier(ctx context.Context, log zerolog.Logger, name string, fn func(context.Context) (bool, error)) (ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Str("tier", name).Msg("strategy panicked")
			ok = false
		}
	}()

	tctx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		tctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	found, err := fn(tctx)
	if err != nil {
		log.Debug().Err(err).Str("tier", name).Msg("strategy found nothing")
		return false
	}
	return found
}

// emergency is the constant final tier.
func (r *Resolver) emergency(kind Kind) Result {
	company := r.Company
	if company == "" {
		company = "VASAVI TRADE ZONE"
	}
	return Result{
		Provenance: Provenance{
			Method:     "Emergency fallback - static capabilities",
			Confidence: ConfidenceNone,
		},
		Fulfilled: false,
		Capabilities: &Capabilities{
			Company:  company,
			Database: "TallyDB",
			Areas: []string{
				"Customer and client information lookup",
				"Sales and revenue analysis",
				"Financial reporting and analysis",
				"Inventory and stock management",
				"Cash and bank balance tracking",
			},
		},
	}
}

// Capabilities is the static emergency payload: what the engine could
// answer if the store were reachable.
type Capabilities struct {
	Company  string
	Database string
	Areas    []string
}

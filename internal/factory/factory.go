// Package factory builds synthetic client records and document scenarios
// from a seeded pseudo-random source.
package factory

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/rcliao/wealth-populate/internal/model"
)

// NameSource supplies names and countries in place of the built-in lists.
type NameSource interface {
	FirstName() string
	LastName() string
	Country() string
}

// Factory produces ClientRecords and GenerationContexts. It owns the random
// source and is not safe for concurrent use.
type Factory struct {
	rng   *rand.Rand
	names NameSource
	now   func() time.Time
}

// Option configures a Factory.
type Option func(*Factory)

// WithNameSource swaps the built-in name lists for a locale-aware source.
// A nil source keeps the built-in lists.
func WithNameSource(n NameSource) Option {
	return func(f *Factory) { f.names = n }
}

// WithClock overrides the clock used for the current year.
func WithClock(now func() time.Time) Option {
	return func(f *Factory) { f.now = now }
}

// New creates a Factory whose draws are fully determined by seed and call order.
func New(seed int64, opts ...Option) *Factory {
	f := &Factory{
		rng: rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Client builds the client for a 1-based index.
func (f *Factory) Client(index int) model.ClientRecord {
	first := f.firstName()
	last := f.lastName()
	domain := f.emailDomain(index)
	email := strings.ToLower(fmt.Sprintf("%s.%s%d@%s", emailToken(first), emailToken(last), index, domain))
	return model.ClientRecord{
		FirstName:          first,
		LastName:           last,
		Email:              email,
		CountryOfResidence: f.country(),
	}
}

// DocCount draws a document count in [minDocs, maxDocs]. It is always 0
// when maxDocs is 0. Bounds are validated by the caller.
func (f *Factory) DocCount(minDocs, maxDocs int) int {
	if maxDocs <= 0 {
		return 0
	}
	return minDocs + f.rng.IntN(maxDocs-minDocs+1)
}

// Context draws the scenario for one document of client. The draw order is
// fixed so a seed reproduces the same sequence.
func (f *Factory) Context(client model.ClientRecord, clientIndex, docIndex int) model.GenerationContext {
	now := f.now()
	gc := model.GenerationContext{
		ClientName:    client.FullName(),
		ClientCountry: client.CountryOfResidence,
		ReferenceID:   fmt.Sprintf("%d-%d", clientIndex, docIndex),
		Year:          now.Year(),
	}
	gc.DocType = f.pick(DocumentTypes)
	gc.Topic = f.pick(Topics)
	gc.Regulation = f.pick(Regulations)
	gc.KPILabel = f.pick(FinancialMetrics)
	gc.KPIValue = round2(f.uniform(kpiMin, kpiMax))
	gc.ResidencyYear = f.intBetween(minResidencyYear, max(now.Year(), minResidencyYear))
	gc.Actions = f.sample(ActionItems, actionsPerDocument)
	gc.Supporting = f.sample(SupportingItems, supportingPerDocument)
	gc.Quarter = f.pick(Quarters)
	gc.IncomeCurrency = f.pick(Currencies)
	gc.IncomeAmount = round2(f.uniform(incomeMin, incomeMax))
	return gc
}

func (f *Factory) firstName() string {
	if f.names != nil {
		return f.names.FirstName()
	}
	return f.pick(FirstNames)
}

func (f *Factory) lastName() string {
	if f.names != nil {
		return f.names.LastName()
	}
	return f.pick(LastNames)
}

func (f *Factory) country() string {
	if f.names != nil {
		return f.names.Country()
	}
	return f.pick(Countries)
}

func (f *Factory) emailDomain(index int) string {
	if f.rng.Float64() < personalDomainRatio {
		return f.pick(PersonalDomains)
	}
	domain := f.pick(CorporateDomains)
	if f.names != nil {
		return domain
	}
	if f.rng.Float64() < domainVariantRatio {
		name, suffix, _ := strings.Cut(domain, ".")
		return fmt.Sprintf("%s%d.%s", name, index%100, suffix)
	}
	return domain
}

func (f *Factory) pick(items []string) string {
	return items[f.rng.IntN(len(items))]
}

func (f *Factory) intBetween(lo, hi int) int {
	return lo + f.rng.IntN(hi-lo+1)
}

func (f *Factory) uniform(lo, hi float64) float64 {
	return lo + f.rng.Float64()*(hi-lo)
}

// sample draws k distinct items without replacement.
func (f *Factory) sample(items []string, k int) []string {
	pool := slices.Clone(items)
	k = min(k, len(pool))
	for i := 0; i < k; i++ {
		j := i + f.rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k:k]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// emailToken keeps only ASCII letters so names like "D'Souza" produce a
// valid local part.
func emailToken(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "client"
	}
	return b.String()
}

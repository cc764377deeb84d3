// Package model defines the synthetic records and run bookkeeping types.
package model

import (
	"strconv"
	"time"
)

// ClientRecord is a synthetic client as sent to the remote API.
type ClientRecord struct {
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	Email              string `json:"email"`
	CountryOfResidence string `json:"countryOfResidence"`
}

// FullName returns "First Last".
func (c ClientRecord) FullName() string {
	return c.FirstName + " " + c.LastName
}

// DocumentRecord is a synthetic document body. The owning client id is
// attached at submission time.
type DocumentRecord struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// GenerationContext describes one synthetic document scenario. Both the
// remote drafting prompt and the template text are rendered from it.
type GenerationContext struct {
	ClientName     string
	ClientCountry  string
	DocType        string
	Topic          string
	Regulation     string
	KPILabel       string
	KPIValue       float64
	ResidencyYear  int
	IncomeAmount   float64
	IncomeCurrency string
	Actions        []string
	Supporting     []string
	Quarter        string
	Year           int
	ReferenceID    string
}

// Period is the reporting period label, e.g. "Q3 2026".
func (g GenerationContext) Period() string {
	return g.Quarter + " " + strconv.Itoa(g.Year)
}

// RunCounters tracks what a run has confirmed so far.
type RunCounters struct {
	ClientsCreated   int       `json:"clients_created"`
	DocumentsCreated int       `json:"documents_created"`
	StartedAt        time.Time `json:"started_at"`
}

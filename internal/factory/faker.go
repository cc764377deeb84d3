package factory

import "github.com/brianvoe/gofakeit/v7"

// FakerSource draws locale-aware names and ISO alpha-2 countries from gofakeit.
type FakerSource struct {
	faker *gofakeit.Faker
}

// NewFakerSource returns a FakerSource seeded independently of the Factory's
// own source, so both stay reproducible for a fixed seed.
func NewFakerSource(seed int64) *FakerSource {
	s := uint64(seed)
	if s == 0 {
		// gofakeit picks a random seed for 0.
		s = 1
	}
	return &FakerSource{faker: gofakeit.New(s)}
}

func (s *FakerSource) FirstName() string { return s.faker.FirstName() }
func (s *FakerSource) LastName() string  { return s.faker.LastName() }
func (s *FakerSource) Country() string   { return s.faker.CountryAbr() }

package enrich

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/district-cli/pkg/districts"
	"github.com/sells-group/district-cli/pkg/geocode"
)

// --- Geocoder mock ---

type mockGeocoder struct {
	mock.Mock
}

func (m *mockGeocoder) Geocode(ctx context.Context, addr geocode.AddressInput) (*geocode.Result, error) {
	args := m.Called(ctx, addr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*geocode.Result), args.Error(1)
}

// --- DistrictSource mock ---

type mockDistricts struct {
	mock.Mock
}

func (m *mockDistricts) SupervisorDistrict(ctx context.Context, lat, lon float64) (*districts.Supervisorial, error) {
	args := m.Called(ctx, lat, lon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*districts.Supervisorial), args.Error(1)
}

func (m *mockDistricts) MarinDistrict(ctx context.Context, lat, lon float64) (*districts.Supervisorial, error) {
	args := m.Called(ctx, lat, lon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*districts.Supervisorial), args.Error(1)
}

func (m *mockDistricts) CensusGeographies(ctx context.Context, lat, lon float64) (*districts.CensusGeo, error) {
	args := m.Called(ctx, lat, lon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*districts.CensusGeo), args.Error(1)
}

func (m *mockDistricts) PoliticalDistricts(ctx context.Context, lat, lon float64) (*districts.Political, error) {
	args := m.Called(ctx, lat, lon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*districts.Political), args.Error(1)
}

// newEmptyDistricts returns a mock whose unconditional lookups find nothing.
func newEmptyDistricts() *mockDistricts {
	d := &mockDistricts{}
	d.On("CensusGeographies", mock.Anything, mock.Anything, mock.Anything).Return(&districts.CensusGeo{}, nil)
	d.On("PoliticalDistricts", mock.Anything, mock.Anything, mock.Anything).Return(&districts.Political{}, nil)
	return d
}

// panicGeocoder always panics, for the per-record recovery boundary test.
type panicGeocoder struct{}

func (panicGeocoder) Geocode(context.Context, geocode.AddressInput) (*geocode.Result, error) {
	panic("geocoder exploded")
}

func testProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		State:         "CA",
		MunicipalCity: "San Francisco",
		CountyCities: []string{
			"san rafael", "novato", "mill valley", "tiburon", "sausalito",
			"corte madera", "larkspur", "fairfax", "san anselmo", "ross",
			"kentfield", "belvedere",
		},
	}
}

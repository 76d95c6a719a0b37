// Package enrich runs the record enrichment pipeline: geocode, district
// lookups, field population, and periodic checkpoints. Processing is
// strictly sequential; the upstream services' rate policies leave nothing
// to gain from fan-out.
package enrich

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/district-cli/internal/dataset"
	"github.com/sells-group/district-cli/pkg/districts"
	"github.com/sells-group/district-cli/pkg/geocode"
)

// Geocoding status values stored on a record. Service failures are stored
// verbatim as "Error: <message>" and per-record failures as
// "Processing Error: <message>".
const (
	StatusSuccess  = "Success"
	StatusNotFound = "Not Found"
	StatusMissing  = "Missing Address Data"
)

// errSentinel marks a field whose lookup failed, as opposed to a nil field,
// which means the point sits outside any matching boundary.
const errSentinel = "Error"

const timestampLayout = "2006-01-02 15:04:05"

// Geocoder resolves a free-text address to a coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, addr geocode.AddressInput) (*geocode.Result, error)
}

// DistrictSource maps a coordinate to boundary classifications.
type DistrictSource interface {
	SupervisorDistrict(ctx context.Context, lat, lon float64) (*districts.Supervisorial, error)
	MarinDistrict(ctx context.Context, lat, lon float64) (*districts.Supervisorial, error)
	CensusGeographies(ctx context.Context, lat, lon float64) (*districts.CensusGeo, error)
	PoliticalDistricts(ctx context.Context, lat, lon float64) (*districts.Political, error)
}

// ProcessorConfig carries the state code and the locality predicates that
// gate the SF and Marin lookups.
type ProcessorConfig struct {
	State         string
	MunicipalCity string
	CountyCities  []string
}

// Processor enriches one record at a time.
type Processor struct {
	geocoder  Geocoder
	districts DistrictSource

	state         string
	municipalCity string   // lowercased
	countyCities  []string // lowercased

	now func() time.Time
}

// NewProcessor creates a record processor over the given adapters.
func NewProcessor(g Geocoder, d DistrictSource, cfg ProcessorConfig) *Processor {
	p := &Processor{
		geocoder:      g,
		districts:     d,
		state:         cfg.State,
		municipalCity: strings.ToLower(cfg.MunicipalCity),
		now:           time.Now,
	}
	for _, c := range cfg.CountyCities {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			p.countyCities = append(p.countyCities, c)
		}
	}
	return p
}

// Process runs the per-record sequence and reports whether the record was
// fully processed, i.e. reached the Last_Updated stamp. A panic anywhere
// inside is recovered here so one bad record never aborts the run.
func (p *Processor) Process(ctx context.Context, rec *dataset.Record) (done bool) {
	log := zap.L().With(zap.Int("record", rec.Index))

	defer func() {
		if r := recover(); r != nil {
			log.Error("record processing failed", zap.Any("panic", r))
			rec.GeocodingStatus = strPtr(fmt.Sprintf("Processing Error: %v", r))
			done = false
		}
	}()

	var lat, lon float64
	if rec.HasCoordinates() {
		log.Debug("record already has coordinates, skipping geocoding")
		lat, lon = *rec.Latitude, *rec.Longitude
	} else {
		if rec.Address == "" || rec.City == "" || rec.ZipCode == "" {
			log.Warn("missing address data")
			rec.GeocodingStatus = strPtr(StatusMissing)
			return false
		}

		result, err := p.geocoder.Geocode(ctx, geocode.AddressInput{
			Street:  rec.Address,
			City:    rec.City,
			State:   p.state,
			ZipCode: rec.ZipCode,
		})
		if err != nil {
			log.Warn("geocoding failed", zap.Error(err))
			rec.GeocodingStatus = strPtr("Error: " + err.Error())
			return false
		}
		if !result.Matched {
			log.Warn("address not found", zap.String("city", rec.City))
			rec.GeocodingStatus = strPtr(StatusNotFound)
			return false
		}

		lat, lon = result.Latitude, result.Longitude
		rec.Latitude = &lat
		rec.Longitude = &lon
		rec.GeocodedAddress = strPtr(result.DisplayName)
		rec.GeocodingStatus = strPtr(StatusSuccess)
	}

	city := strings.ToLower(rec.City)

	if p.municipalCity != "" && strings.Contains(city, p.municipalCity) {
		sup, err := p.districts.SupervisorDistrict(ctx, lat, lon)
		if err != nil {
			log.Warn("SF district lookup failed", zap.Error(err))
			rec.SFDistrict = strPtr(errSentinel)
			rec.SFSupervisor = strPtr(errSentinel)
		} else {
			rec.SFDistrict = sup.District
			rec.SFSupervisor = sup.Supervisor
		}
	}

	if p.inCounty(city) {
		sup, err := p.districts.MarinDistrict(ctx, lat, lon)
		if err != nil {
			log.Warn("Marin district lookup failed", zap.Error(err))
			rec.MarinDistrict = strPtr(errSentinel)
			rec.MarinSupervisor = strPtr(errSentinel)
		} else {
			rec.MarinDistrict = sup.District
			rec.MarinSupervisor = sup.Supervisor
		}
	}

	geo, err := p.districts.CensusGeographies(ctx, lat, lon)
	if err != nil {
		log.Warn("census lookup failed", zap.Error(err))
		rec.CensusPUMA = strPtr(errSentinel)
		rec.CensusTract = strPtr(errSentinel)
		rec.CensusBlock = strPtr(errSentinel)
	} else {
		rec.CensusPUMA = geo.PUMA
		rec.CensusTract = geo.Tract
		rec.CensusBlock = geo.Block
	}

	pol, err := p.districts.PoliticalDistricts(ctx, lat, lon)
	if err != nil {
		log.Warn("political district lookup failed", zap.Error(err))
		rec.Congressional = strPtr(errSentinel)
		rec.Assembly = strPtr(errSentinel)
		rec.Senate = strPtr(errSentinel)
	} else {
		rec.Congressional = pol.Congressional
		rec.Assembly = pol.StateLower
		rec.Senate = pol.StateUpper
	}

	rec.LastUpdated = strPtr(p.now().Format(timestampLayout))
	return true
}

// inCounty reports whether the city names one of the county's municipalities.
func (p *Processor) inCounty(city string) bool {
	for _, c := range p.countyCities {
		if strings.Contains(city, c) {
			return true
		}
	}
	return false
}

func strPtr(s string) *string {
	return &s
}

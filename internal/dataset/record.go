package dataset

// Output column names. Missing columns are appended to the sheet header at
// load, in this order.
const (
	ColLatitude        = "Latitude"
	ColLongitude       = "Longitude"
	ColGeocodedAddress = "Geocoded_Address"
	ColSFDistrict      = "SF_Supervisorial_District"
	ColSFSupervisor    = "SF_Supervisor"
	ColMarinDistrict   = "Marin_Supervisor_District"
	ColMarinSupervisor = "Marin_Supervisor"
	ColCongressional   = "Congressional_District"
	ColCensusPUMA      = "Census_PUMA"
	ColCensusTract     = "Census_Tract"
	ColCensusBlock     = "Census_Block"
	ColAssembly        = "CA_Assembly_District"
	ColSenate          = "CA_Senate_District"
	ColStatus          = "Geocoding_Status"
	ColLastUpdated     = "Last_Updated"
)

var outputColumns = []string{
	ColLatitude, ColLongitude, ColGeocodedAddress,
	ColSFDistrict, ColSFSupervisor,
	ColMarinDistrict, ColMarinSupervisor,
	ColCongressional,
	ColCensusPUMA, ColCensusTract, ColCensusBlock,
	ColAssembly, ColSenate,
	ColStatus, ColLastUpdated,
}

// Columns names the input columns consumed from the roster spreadsheet.
type Columns struct {
	Address string
	City    string
	ZipCode string
}

// Record is one roster row. Inputs are read-only; every output is optional
// and set at most once per field per run. A nil output leaves the stored
// cell untouched; the literal string "Error" records a failed lookup, which
// is a different outcome from a confirmed absence.
type Record struct {
	Index int

	Address string
	City    string
	ZipCode string

	Latitude  *float64
	Longitude *float64

	GeocodedAddress *string
	SFDistrict      *string
	SFSupervisor    *string
	MarinDistrict   *string
	MarinSupervisor *string
	CensusPUMA      *string
	CensusTract     *string
	CensusBlock     *string
	Congressional   *string
	Assembly        *string
	Senate          *string

	GeocodingStatus *string
	LastUpdated     *string
}

// HasCoordinates reports whether the record was geocoded in a previous run.
func (r *Record) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

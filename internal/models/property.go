package models

// The CMS stores properties in the "propiedades" collection with Spanish
// attribute names. These types map that wire format onto Go identifiers.
// Read responses use the standard envelope: {"data":{"id":N,"attributes":{...}}}.

// Services is the shared-amenities group of a property.
type Services struct {
	WiFi               bool `json:"WiFi"`
	Parking            bool `json:"Parking"`
	ReducedMobility    bool `json:"AdaptadoMovilidadReducida"`
	Pool               bool `json:"Piscina"`
	Gym                bool `json:"Gimnasio"`
	Spa                bool `json:"Spa"`
	Restaurant         bool `json:"Restaurante"`
	Bar                bool `json:"Bar"`
	Laundry            bool `json:"Lavanderia"`
	Reception24h       bool `json:"Recepcion24h"`
	AirportShuttle     bool `json:"TransporteAeropuerto"`
	RoomService        bool `json:"ServicioHabitaciones"`
	PetsAllowed        bool `json:"AdmiteMascotas"`
	SmokingArea        bool `json:"ZonasFumadores"`
	SharedAirCon       bool `json:"AireAcondicionadoComun"`
	SharedHeating      bool `json:"CalefaccionComun"`
	ConferenceRoom     bool `json:"SalaConferencias"`
	KidsPlayArea       bool `json:"AreaJuegosInfantiles"`
	Library            bool `json:"Biblioteca"`
	Garden             bool `json:"Jardin"`
}

// RoomFeatures is the in-room amenities group ("Caracteristicas").
type RoomFeatures struct {
	Terrace         bool `json:"Terraza"`
	PanoramicViews  bool `json:"VistasPanoramicas"`
	AirConditioning bool `json:"AireAcondicionado"`
	Heating         bool `json:"Calefaccion"`
	Minibar         bool `json:"Minibar"`
	FlatScreenTV    bool `json:"TVPantallaPlana"`
	Safe            bool `json:"CajaFuerte"`
	Desk            bool `json:"Escritorio"`
	Bathtub         bool `json:"Banera"`
	Shower          bool `json:"Ducha"`
	HairDryer       bool `json:"SecadorPelo"`
	Toiletries      bool `json:"ArticulosAseo"`
	Wardrobe        bool `json:"Armario"`
	Soundproofing   bool `json:"Insonorizacion"`
	CoffeeMaker     bool `json:"Cafetera"`
	ElectricKettle  bool `json:"HervidorElectrico"`
	Microwave       bool `json:"Microondas"`
	Fridge          bool `json:"Nevera"`
	KingSizeBed     bool `json:"CamaExtraGrande"`
	Streaming       bool `json:"ServicioStreaming"`
}

// PropertyAttributes is a property as stored by the CMS.
type PropertyAttributes struct {
	Title          string        `json:"Titulo"`
	Description    string        `json:"Descripcion"`
	Price          float64       `json:"Precio"`
	Address        string        `json:"Direccion"`
	Country        string        `json:"Pais,omitempty"`
	Region         string        `json:"ComunidadAutonoma,omitempty"`
	City           string        `json:"Ciudad,omitempty"`
	NumRooms       int           `json:"Numerodehabitaciones,omitempty"`
	NumBathrooms   int           `json:"Numerodebanos,omitempty"`
	Services       *Services     `json:"Servicios,omitempty"`
	Breakfast      []string      `json:"Desayuno,omitempty"`
	Features       *RoomFeatures `json:"Caracteristicas,omitempty"`
	Highlights     string        `json:"PuntosFuertes,omitempty"`
	AvailableFrom  string        `json:"DisponibleDesde,omitempty"`
	AvailableUntil string        `json:"DisponibleHasta,omitempty"`
	Latitude       *float64      `json:"Latitud,omitempty"`
	Longitude      *float64      `json:"Longitud,omitempty"`
	Images         *ImageList    `json:"Imagenes,omitempty"`
	Owner          *UserRelation `json:"users_permissions_user,omitempty"`
}

type PropertyEntry struct {
	ID         int                `json:"id"`
	Attributes PropertyAttributes `json:"attributes"`
}

// OwnerID returns the id of the owning user, or 0 when the relation was
// not populated.
func (p *PropertyEntry) OwnerID() int {
	if p.Attributes.Owner == nil || p.Attributes.Owner.Data == nil {
		return 0
	}
	return p.Attributes.Owner.Data.ID
}

// OwnerPayoutAccount returns the owner's payment-processor account id,
// or "" when absent.
func (p *PropertyEntry) OwnerPayoutAccount() string {
	if p.Attributes.Owner == nil || p.Attributes.Owner.Data == nil {
		return ""
	}
	return p.Attributes.Owner.Data.Attributes.StripeAccountID
}

type PropertyRelation struct {
	Data *PropertyEntry `json:"data,omitempty"`
}

// ImageEntry is one uploaded media file attached to a property.
type ImageEntry struct {
	ID         int `json:"id"`
	Attributes struct {
		URL  string `json:"url"`
		Name string `json:"name,omitempty"`
	} `json:"attributes"`
}

type ImageList struct {
	Data []ImageEntry `json:"data,omitempty"`
}

// PropertyInput is the write payload for creating or updating a property.
// Relations are sent as plain ids, the way the CMS expects them.
type PropertyInput struct {
	Title          string        `json:"Titulo"`
	Description    string        `json:"Descripcion"`
	Price          float64       `json:"Precio"`
	Address        string        `json:"Direccion"`
	Country        string        `json:"Pais,omitempty"`
	Region         string        `json:"ComunidadAutonoma,omitempty"`
	City           string        `json:"Ciudad,omitempty"`
	NumRooms       int           `json:"Numerodehabitaciones,omitempty"`
	NumBathrooms   int           `json:"Numerodebanos,omitempty"`
	Services       *Services     `json:"Servicios,omitempty"`
	Breakfast      []string      `json:"Desayuno,omitempty"`
	Features       *RoomFeatures `json:"Caracteristicas,omitempty"`
	Highlights     string        `json:"PuntosFuertes,omitempty"`
	AvailableFrom  string        `json:"DisponibleDesde,omitempty"`
	AvailableUntil string        `json:"DisponibleHasta,omitempty"`
	Latitude       *float64      `json:"Latitud,omitempty"`
	Longitude      *float64      `json:"Longitud,omitempty"`
	Images         []int         `json:"Imagenes,omitempty"`
	Owner          int           `json:"users_permissions_user,omitempty"`
	PublishedAt    string        `json:"publishedAt,omitempty"`
}

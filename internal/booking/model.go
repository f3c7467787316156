package booking

import (
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nekogravitycat/court-booking-widget/internal/availability"
	"github.com/nekogravitycat/court-booking-widget/internal/calendar"
	"github.com/nekogravitycat/court-booking-widget/internal/pkg/apperror"
	"github.com/nekogravitycat/court-booking-widget/internal/slot"
)

const (
	MsgBooked       = "Turno reservado exitosamente."
	MsgSubmitFailed = "Error en la reserva. Por favor, revisa los datos."
	MsgRejected     = "No se pudo completar la reserva. El turno puede haber sido reservado."
	MsgUnauthorized = "Debes iniciar sesión como usuario para reservar un turno."
)

var (
	ErrSessionNotFound = apperror.New(http.StatusNotFound, "session not found")
	ErrSessionClosed   = apperror.New(http.StatusGone, "session closed")
	ErrNoSlotSelected  = apperror.New(http.StatusConflict, "no slot selected")
	ErrUnauthorized    = apperror.New(http.StatusUnauthorized, MsgUnauthorized)
	ErrRejected        = apperror.New(http.StatusConflict, MsgRejected)
)

// State is the widget's position in the booking flow.
type State string

const (
	StateIdle         State = "idle"
	StateDateSelected State = "date_selected"
	StateSlotSelected State = "slot_selected"
)

// slotDuration is the length of every bookable slot.
const slotDuration = time.Hour

// Selection is what the user has picked so far. Empty fields mean "nothing picked".
type Selection struct {
	Date       string                  `json:"date,omitempty"`
	ResourceID availability.ResourceID `json:"resource_id,omitempty"`
	Start      string                  `json:"start,omitempty"`
	End        string                  `json:"end,omitempty"`
}

// HasSlot reports whether a resource and time are picked.
func (s Selection) HasSlot() bool {
	return s.ResourceID != "" && s.Start != ""
}

// Payload is the reservation form handed to the submission collaborator.
type Payload struct {
	Fecha      string `json:"fecha" form:"fecha"`
	Cancha     string `json:"cancha" form:"cancha"`
	HoraInicio string `json:"hora_inicio" form:"hora_inicio"`
	HoraFin    string `json:"hora_fin" form:"hora_fin"`
}

// Values encodes the payload as form fields.
func (p Payload) Values() url.Values {
	return url.Values{
		"fecha":       {p.Fecha},
		"cancha":      {p.Cancha},
		"hora_inicio": {p.HoraInicio},
		"hora_fin":    {p.HoraFin},
	}
}

type MessageKind string

const (
	MessageError   MessageKind = "error"
	MessageSuccess MessageKind = "success"
)

// Message is the content of the widget's message region.
type Message struct {
	Kind MessageKind `json:"kind"`
	Text string      `json:"text"`
}

// Ticket identifies one availability fetch. Only the latest ticket is ever applied.
type Ticket struct {
	Seq  uint64
	Date string
}

// Confirmation describes the picked slot before it is submitted.
type Confirmation struct {
	Resource  availability.Resource `json:"resource"`
	TimeRange string                `json:"time_range"`
	Total     decimal.Decimal       `json:"total"`
}

// View is the render model emitted after every transition.
type View struct {
	Title        string                  `json:"title"`
	Year         int                     `json:"year"`
	Month        time.Month              `json:"month"`
	Days         []*calendar.Day         `json:"days"`
	State        State                   `json:"state"`
	Selection    Selection               `json:"selection"`
	Loading      bool                    `json:"loading"`
	Resources    []availability.Resource `json:"resources"`
	Rows         []slot.Row              `json:"rows"`
	NoResources  bool                    `json:"no_resources"`
	Message      *Message                `json:"message,omitempty"`
	Confirmation *Confirmation           `json:"confirmation,omitempty"`
}

// Renderer consumes views. Rendering layers (HTTP, terminal, tests) implement it.
type Renderer interface {
	Render(View)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(View)

func (f RendererFunc) Render(v View) { f(v) }

package booking

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nekogravitycat/court-booking-widget/internal/availability"
	"github.com/nekogravitycat/court-booking-widget/internal/calendar"
	"github.com/nekogravitycat/court-booking-widget/internal/pkg/apperror"
	"github.com/nekogravitycat/court-booking-widget/internal/slot"
)

// Options configures a Controller.
type Options struct {
	Hours    slot.Hours
	Now      func() time.Time
	Location *time.Location // defines "today"; defaults to time.Local
}

// Controller is the booking state machine. It is not safe for concurrent use:
// callers deliver events one at a time (see Session).
type Controller struct {
	hours slot.Hours
	now   func() time.Time
	loc   *time.Location

	year  int
	month time.Month

	state     State
	selection Selection
	seq       uint64
	loading   bool
	response  *availability.Response
	rows      []slot.Row
	message   *Message

	renderers []Renderer
}

func NewController(opts Options) *Controller {
	c := &Controller{
		hours: opts.Hours,
		now:   opts.Now,
		loc:   opts.Location,
		state: StateIdle,
	}
	if c.hours == (slot.Hours{}) {
		c.hours = slot.DefaultHours
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.loc == nil {
		c.loc = time.Local
	}

	c.year, c.month, _ = c.today().Date()
	return c
}

// AddRenderer registers r to receive a view after every transition.
func (c *Controller) AddRenderer(r Renderer) {
	c.renderers = append(c.renderers, r)
}

func (c *Controller) today() time.Time {
	return c.now().In(c.loc)
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Selection returns the current selection.
func (c *Controller) Selection() Selection {
	return c.selection
}

// SelectDate picks a date and returns the ticket of the fetch the caller must issue.
// Unparseable and past dates are ignored.
func (c *Controller) SelectDate(date string) (Ticket, bool) {
	d, err := calendar.ParseDate(date)
	if err != nil || calendar.IsPast(d, c.today()) {
		return Ticket{}, false
	}

	t := c.beginFetch(date)
	c.emit()
	return t, true
}

// beginFetch moves to DateSelected for date with an empty, loading slot view.
func (c *Controller) beginFetch(date string) Ticket {
	c.seq++
	c.state = StateDateSelected
	c.selection = Selection{Date: date}
	c.loading = true
	c.response = nil
	c.rows = nil
	c.message = nil
	return Ticket{Seq: c.seq, Date: date}
}

// isCurrent reports whether t belongs to the most recent fetch for the selected date.
func (c *Controller) isCurrent(t Ticket) bool {
	return c.loading && t.Seq == c.seq && t.Date == c.selection.Date
}

// OnAvailabilityLoaded applies a fetch result. Results of stale tickets are discarded.
func (c *Controller) OnAvailabilityLoaded(t Ticket, resp *availability.Response) bool {
	if !c.isCurrent(t) {
		return false
	}
	if resp == nil {
		resp = &availability.Response{}
	}

	c.loading = false
	c.response = resp
	c.rows = slot.BuildTable(resp.Resources, resp.Available, c.hours)
	c.emit()
	return true
}

// OnAvailabilityFailed surfaces a fetch error. Errors of stale tickets are discarded.
func (c *Controller) OnAvailabilityFailed(t Ticket, err error) bool {
	if !c.isCurrent(t) {
		return false
	}

	c.loading = false
	c.message = &Message{Kind: MessageError, Text: availability.MessageFor(err)}
	c.emit()
	return true
}

// SelectSlot picks one available cell of the loaded table.
// Cells that are not offered as available are ignored.
func (c *Controller) SelectSlot(id availability.ResourceID, start, end string) bool {
	if c.state == StateIdle || c.loading || c.response == nil {
		return false
	}
	if _, ok := c.response.Resource(id); !ok {
		return false
	}
	if !c.response.IsAvailable(id, start) {
		return false
	}
	if rowEnd, ok := slot.EndOf(c.rows, start); !ok || rowEnd != end {
		return false
	}

	c.selection = Selection{
		Date:       c.selection.Date,
		ResourceID: id,
		Start:      start,
		End:        end,
	}
	c.state = StateSlotSelected
	c.emit()
	return true
}

// ChangeMonth moves the visible month by delta. Selection and state are untouched.
func (c *Controller) ChangeMonth(delta int) {
	c.year, c.month = calendar.ShiftMonth(c.year, c.month, delta)
	c.emit()
}

// Payload returns the reservation form for the selected slot.
func (c *Controller) Payload() (Payload, bool) {
	if c.state != StateSlotSelected {
		return Payload{}, false
	}
	return Payload{
		Fecha:      c.selection.Date,
		Cancha:     string(c.selection.ResourceID),
		HoraInicio: c.selection.Start,
		HoraFin:    c.selection.End,
	}, true
}

// OnSubmitted records the outcome of submitting p. After a successful booking the
// slots of the same date are fetched again; the returned ticket is that fetch.
func (c *Controller) OnSubmitted(p Payload, err error) (Ticket, bool) {
	if err != nil {
		c.message = &Message{Kind: MessageError, Text: apperror.UserMessage(err, MsgSubmitFailed)}
		c.emit()
		return Ticket{}, false
	}

	var (
		t       Ticket
		refetch bool
	)
	if c.state != StateIdle && c.selection.Date == p.Fecha {
		t = c.beginFetch(p.Fecha)
		refetch = true
	}
	c.message = &Message{Kind: MessageSuccess, Text: MsgBooked}
	c.emit()
	return t, refetch
}

// View builds the render model of the current state.
func (c *Controller) View() View {
	v := View{
		Title:     calendar.Title(c.year, c.month),
		Year:      c.year,
		Month:     c.month,
		Days:      calendar.BuildMonthGrid(c.year, c.month, c.today(), c.selection.Date),
		State:     c.state,
		Selection: c.selection,
		Loading:   c.loading,
		Rows:      c.rows,
		Message:   c.message,
	}
	if c.response != nil {
		v.Resources = c.response.Resources
		v.NoResources = len(c.response.Resources) == 0
	}
	if c.state == StateSlotSelected {
		if res, ok := c.response.Resource(c.selection.ResourceID); ok {
			hours := decimal.NewFromFloat(slotDuration.Hours())
			v.Confirmation = &Confirmation{
				Resource:  res,
				TimeRange: c.selection.Start + " a " + c.selection.End,
				Total:     res.Price.Mul(hours),
			}
		}
	}
	return v
}

func (c *Controller) emit() {
	if len(c.renderers) == 0 {
		return
	}
	v := c.View()
	for _, r := range c.renderers {
		r.Render(v)
	}
}

package remote

type Status int

const (
	// Disabled means forwarding is switched off; it is a successful no-op.
	Disabled Status = iota
	Delivered
	Failed
)

func (s Status) String() string {
	switch s {
	case Disabled:
		return "disabled"
	case Delivered:
		return "delivered"
	default:
		return "failed"
	}
}

// Outcome is the result of one forwarding attempt. Reason is set only when
// Status is Failed.
type Outcome struct {
	Status Status
	Reason string
}

func (o Outcome) OK() bool {
	return o.Status != Failed
}

func disabled() Outcome            { return Outcome{Status: Disabled} }
func delivered() Outcome           { return Outcome{Status: Delivered} }
func failed(reason string) Outcome { return Outcome{Status: Failed, Reason: reason} }

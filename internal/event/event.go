package event

type Type string

const (
	TypeUserSignedUp    Type = "auth.user.signed_up"
	TypeUserSignedIn    Type = "auth.user.signed_in"
	TypeSignInFailed    Type = "auth.signin.failed"
	TypeUserSignedOut   Type = "auth.user.signed_out"
	TypeTokensRefreshed Type = "auth.tokens.refreshed"
)

type Event struct {
	ID        string      `json:"id"`
	Type      Type        `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp string      `json:"timestamp"`
	ActorID   string      `json:"actor_id,omitempty"`
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func()) // Returns channel and unsubscribe function
}

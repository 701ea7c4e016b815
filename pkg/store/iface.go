package store

import "github.com/daviddao/halftime/pkg/model"

// StoreInterface is the set of store operations the CLI and server use.
type StoreInterface interface {
	Close() error

	// --- Participants ---

	// ListParticipants returns the draft list in order.
	ListParticipants() ([]model.Participant, error)

	// AddParticipant appends a name and returns its 0-based position.
	AddParticipant(name string) (int, error)

	RenameParticipant(pos int, name string) error

	// RemoveParticipant deletes a position and shifts later ones down.
	RemoveParticipant(pos int) error

	ClearParticipants() error

	// --- Draws ---

	SaveDraw(token string, surprise bool) (*model.Draw, error)
	GetDraw(id string) (*model.Draw, error)

	// LatestDraw returns ErrNotFound when nothing has been drawn yet.
	LatestDraw() (*model.Draw, error)
	ListDraws(limit int) ([]model.Draw, error)
	DeleteDraws() (int64, error)
}

var _ StoreInterface = (*Store)(nil)

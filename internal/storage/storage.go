// Package storage defines the persisted row types and the per-concern
// storage contracts. Two implementations exist: postgres (server of record)
// and memory (fallback when no DATABASE_URL is configured, also used by
// tests). The uniqueness constraints named here — one diary day per
// (client, date), one measurement per (client, week), one survey per
// (client, date), one goal per (client, start_date), unique invite codes —
// are load-bearing: the upsert and redemption guarantees depend on them.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when the referenced row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken is returned when registering with an already used email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrCodeTaken is returned when inserting an invite whose code is already
	// in use. Callers draw a new code and retry.
	ErrCodeTaken = errors.New("invite code already exists")

	// ErrInviteNotActive is returned when a redemption or deactivation finds
	// the code used, expired, or past its expiry timestamp. The enclosing
	// transaction is rolled back.
	ErrInviteNotActive = errors.New("invite code is not active")

	// ErrNotOwned is returned when a trainer operates on a client that is not
	// currently (or, for unarchive, historically) theirs.
	ErrNotOwned = errors.New("client does not belong to this trainer")
)

// User roles.
const (
	RoleTrainer = "trainer"
	RoleClient  = "client"
)

// Invite statuses. A new code transitions to used exactly once, or to
// expired via explicit deactivation. Both end states are terminal.
const (
	InviteStatusNew     = "new"
	InviteStatusUsed    = "used"
	InviteStatusExpired = "expired"
)

// User is an authenticated account (trainer or client).
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// Trainer profile row.
type Trainer struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Client profile row. CurrentTrainerID is null exactly while the client is
// archived; ArchivedAt/ArchivedByTrainerID are set together when a trainer
// archives the client (ArchivedByTrainerID may be null for orphan archives).
type Client struct {
	ID                  uuid.UUID
	UserID              uuid.UUID
	Name                string
	CurrentTrainerID    *uuid.UUID
	ArchivedAt          *time.Time
	ArchivedByTrainerID *uuid.UUID
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Archived reports whether the client currently has no active trainer.
func (c Client) Archived() bool {
	return c.ArchivedAt != nil
}

// MacroTotals holds the four tracked macros in grams.
type MacroTotals struct {
	ProteinG int
	FatG     int
	CarbsG   int
	FiberG   int
}

// Add returns the elementwise sum of two totals.
func (m MacroTotals) Add(o MacroTotals) MacroTotals {
	return MacroTotals{
		ProteinG: m.ProteinG + o.ProteinG,
		FatG:     m.FatG + o.FatG,
		CarbsG:   m.CarbsG + o.CarbsG,
		FiberG:   m.FiberG + o.FiberG,
	}
}

// DiaryDay is the authoritative per-day nutrition row. Totals always equal
// the sum of the day's meal rows; both are replaced together in one
// transaction on every sync.
type DiaryDay struct {
	ID        uuid.UUID
	ClientID  uuid.UUID
	Date      string // YYYY-MM-DD, UTC day
	Totals    MacroTotals
	Synced    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Meal is a child row of DiaryDay, ordered by Position.
type Meal struct {
	ID        uuid.UUID
	DiaryID   uuid.UUID
	Name      string
	TimeOfDay *string // HH:MM, optional
	Macros    MacroTotals
	Position  int
	CreatedAt time.Time
}

// MealDraft is the input shape for replacing a day's meals.
type MealDraft struct {
	Name      string
	TimeOfDay *string
	Macros    MacroTotals
}

// Measurement is the weekly body-measurement row, keyed by the Monday of its
// week. All five circumferences are optional.
type Measurement struct {
	ID        uuid.UUID
	ClientID  uuid.UUID
	WeekStart string // YYYY-MM-DD, always a Monday
	ChestCm   *float64
	WaistCm   *float64
	BellyCm   *float64
	ThighCm   *float64 // average of left/right when both were reported
	ArmCm     *float64 // average of left/right when both were reported
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MeasurementUpsert is the payload for the weekly measurement upsert.
type MeasurementUpsert struct {
	ChestCm *float64
	WaistCm *float64
	BellyCm *float64
	ThighCm *float64
	ArmCm   *float64
}

// MeasurementPhoto is a progress photo attached to a measurement week.
// ObjectKey is set in S3 mode; in local mode the bytes live next to the row.
type MeasurementPhoto struct {
	ID          uuid.UUID
	ClientID    uuid.UUID
	WeekStart   string
	ObjectKey   *string
	ContentType string
	SizeBytes   int64
	CreatedAt   time.Time
}

// Survey is the daily well-being row. Ordinal fields hold small integers
// mapped from bucketed inputs; sleep and water hold bucket midpoints.
type Survey struct {
	ID          uuid.UUID
	ClientID    uuid.UUID
	Date        string // YYYY-MM-DD
	Motivation  int
	Stress      int
	Hunger      int
	Libido      int
	SleepHours  float64
	WaterLitres float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SurveyUpsert is the already-mapped payload for the daily survey upsert.
type SurveyUpsert struct {
	Motivation  int
	Stress      int
	Hunger      int
	Libido      int
	SleepHours  float64
	WaterLitres float64
}

// GoalTargets holds per-day macro targets in grams. Fiber is optional; the
// compliance scorer skips it when absent or zero.
type GoalTargets struct {
	ProteinG int
	FatG     int
	CarbsG   int
	FiberG   *int
}

// Goal is a nutrition goal interval [StartDate, EndDate). EndDate nil means
// open-ended. Intervals of one client never overlap: creating a goal closes
// the previous open interval at the new start date, and a goal with the
// exact same start date is updated in place.
type Goal struct {
	ID        uuid.UUID
	ClientID  uuid.UUID
	TrainerID uuid.UUID
	StartDate string  // inclusive
	EndDate   *string // exclusive, nil = open
	Targets   GoalTargets
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GoalDraft is the input for creating or updating a goal interval.
type GoalDraft struct {
	ClientID  uuid.UUID
	TrainerID uuid.UUID
	StartDate string
	Targets   GoalTargets
}

// Invite is a single-use 6-digit pairing code issued by a trainer.
type Invite struct {
	ID        uuid.UUID
	TrainerID uuid.UUID
	Code      string
	Status    string
	ClientID  *uuid.UUID
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// IsActive reports whether the code can still be redeemed at the given
// moment. Expiry is lazy: an overdue NEW code reads as inactive without the
// row being rewritten.
func (i Invite) IsActive(now time.Time) bool {
	return i.Status == InviteStatusNew && i.ExpiresAt.After(now)
}

// NewAccount is the input for account creation.
type NewAccount struct {
	Email        string
	PasswordHash string
	Name         string
}

// AccountsStorage creates and looks up authenticated accounts.
type AccountsStorage interface {
	// CreateTrainerAccount inserts the user and trainer rows in one
	// transaction. Returns ErrEmailTaken before any row is written when the
	// email is already registered.
	CreateTrainerAccount(ctx context.Context, acc NewAccount) (User, Trainer, error)

	// CreateClientAccount inserts the user and client rows and redeems the
	// invite code in ONE transaction. The redemption is a conditional update
	// that only succeeds while the code status is still new and the code is
	// unexpired; otherwise the whole transaction rolls back with
	// ErrInviteNotActive and no account exists afterwards.
	CreateClientAccount(ctx context.Context, acc NewAccount, code string, now time.Time) (User, Client, Invite, error)

	// GetUserByEmail returns the user for an email. bool=false means not found.
	GetUserByEmail(ctx context.Context, email string) (User, bool, error)

	// GetUserByID returns the user by id. bool=false means not found.
	GetUserByID(ctx context.Context, id uuid.UUID) (User, bool, error)
}

// TrainersStorage looks up trainer profiles.
type TrainersStorage interface {
	GetTrainer(ctx context.Context, id uuid.UUID) (Trainer, bool, error)
	GetTrainerByUserID(ctx context.Context, userID uuid.UUID) (Trainer, bool, error)
}

// ClientsStorage manages client profiles and the trainer association.
type ClientsStorage interface {
	GetClient(ctx context.Context, id uuid.UUID) (Client, bool, error)
	GetClientByUserID(ctx context.Context, userID uuid.UUID) (Client, bool, error)

	// ListClientsByTrainer returns the trainer's active roster, or the
	// clients archived by that trainer when archived is true.
	ListClientsByTrainer(ctx context.Context, trainerID uuid.UUID, archived bool) ([]Client, error)

	// ArchiveClient archives the client if it currently belongs to the
	// trainer. Archiving an already-archived client is a no-op returning the
	// stored state. Returns ErrNotOwned when the client belongs to someone else.
	ArchiveClient(ctx context.Context, trainerID, clientID uuid.UUID, now time.Time) (Client, error)

	// UnarchiveClient restores the trainer association and clears the archive
	// fields. Permission rules live in the service layer; this only requires
	// the client to be archived.
	UnarchiveClient(ctx context.Context, trainerID, clientID uuid.UUID) (Client, error)

	// ChangeTrainer redeems the code for an existing client and reassigns the
	// client to the issuing trainer, clearing any archive state, in one
	// transaction guarded the same way as CreateClientAccount.
	ChangeTrainer(ctx context.Context, clientID uuid.UUID, code string, now time.Time) (Client, Invite, error)
}

// DiaryStorage is the upsert store for diary days and their meals.
type DiaryStorage interface {
	// ReplaceDay upserts the (clientID, date) diary row with the given totals
	// and synced=true, deletes all existing meal rows of that day, and
	// inserts the new list — atomically. bool reports whether the day row was
	// created. An empty meal list is valid.
	ReplaceDay(ctx context.Context, clientID uuid.UUID, date string, totals MacroTotals, meals []MealDraft) (DiaryDay, bool, error)

	// GetDay returns the day row with its meals ordered by position.
	GetDay(ctx context.Context, clientID uuid.UUID, date string) (DiaryDay, []Meal, bool, error)

	// ListDays returns day rows in [from, to], ascending by date.
	ListDays(ctx context.Context, clientID uuid.UUID, from, to string) ([]DiaryDay, error)
}

// MeasurementsStorage is the upsert store for weekly measurements and their
// progress photos.
type MeasurementsStorage interface {
	UpsertMeasurement(ctx context.Context, clientID uuid.UUID, weekStart string, up MeasurementUpsert) (Measurement, bool, error)
	GetMeasurement(ctx context.Context, clientID uuid.UUID, weekStart string) (Measurement, bool, error)
	ListMeasurements(ctx context.Context, clientID uuid.UUID, from, to string) ([]Measurement, error)
	LatestMeasurement(ctx context.Context, clientID uuid.UUID) (Measurement, bool, error)

	AddPhoto(ctx context.Context, photo *MeasurementPhoto) error
	ListPhotos(ctx context.Context, clientID uuid.UUID, weekStart string) ([]MeasurementPhoto, error)

	// GetPhotoBlob / PutPhotoBlob carry the photo bytes in local blob mode.
	// In S3 mode the bytes never touch this layer.
	GetPhotoBlob(ctx context.Context, photoID uuid.UUID) ([]byte, string, error)
	PutPhotoBlob(ctx context.Context, photoID uuid.UUID, data []byte, contentType string) error
}

// SurveysStorage is the upsert store for daily surveys.
type SurveysStorage interface {
	UpsertSurvey(ctx context.Context, clientID uuid.UUID, date string, up SurveyUpsert) (Survey, bool, error)
	GetSurvey(ctx context.Context, clientID uuid.UUID, date string) (Survey, bool, error)
	ListSurveys(ctx context.Context, clientID uuid.UUID, from, to string) ([]Survey, error)
}

// GoalsStorage manages non-overlapping goal intervals.
type GoalsStorage interface {
	// PutGoal updates the goal in place when one with the same start date
	// exists, otherwise closes the client's open interval at the new start
	// date and inserts — in one transaction. bool reports creation.
	PutGoal(ctx context.Context, draft GoalDraft) (Goal, bool, error)

	// ListGoals returns all goal intervals of a client, ascending by start.
	ListGoals(ctx context.Context, clientID uuid.UUID) ([]Goal, error)

	// ListGoalsOverlapping returns intervals with start <= windowEnd and
	// (end is null or end > windowStart), ascending by start. This is the
	// bounded-lookback prefilter the resolver expects.
	ListGoalsOverlapping(ctx context.Context, clientID uuid.UUID, windowStart, windowEnd string) ([]Goal, error)
}

// InvitesStorage manages the invite-code lifecycle.
type InvitesStorage interface {
	// CreateInvite inserts a NEW code. Returns ErrCodeTaken when the code is
	// already present; callers draw a new code and retry.
	CreateInvite(ctx context.Context, inv *Invite) error

	GetInviteByCode(ctx context.Context, code string) (Invite, bool, error)
	ListInvitesByTrainer(ctx context.Context, trainerID uuid.UUID) ([]Invite, error)

	// DeactivateInvite transitions the trainer's NEW code to expired via a
	// conditional update. Returns ErrInviteNotActive when the code was
	// already used or expired.
	DeactivateInvite(ctx context.Context, trainerID uuid.UUID, code string, now time.Time) (Invite, error)

	// HasRedeemedInvite reports whether the client has ever redeemed a code
	// issued by the trainer. Used for orphan-archive access control.
	HasRedeemedInvite(ctx context.Context, trainerID, clientID uuid.UUID) (bool, error)
}

// Store aggregates every storage concern plus lifecycle. Both the postgres
// and the memory implementation satisfy it; it is opened once at process
// start and closed on shutdown.
type Store interface {
	AccountsStorage
	TrainersStorage
	ClientsStorage
	DiaryStorage
	MeasurementsStorage
	SurveysStorage
	GoalsStorage
	InvitesStorage

	Close() error
}

package entities

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Member is a legislative-assembly participant record tied to one speech/session
type Member struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Constituency string    `json:"constituency"`
	SessionName  string    `json:"sessionName"`
	SessionDate  time.Time `json:"sessionDate"`
	SpeechGiven  string    `json:"speechGiven"`
	TimeTaken    float64   `json:"timeTaken"`
	PartyName    string    `json:"partyName"`
	ImageURL     string    `json:"imageUrl"`
	PartyLogoURL string    `json:"partyLogoUrl"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// MemberFields carries raw member fields as received from a form or JSON body.
// A field that is not Valid was not supplied by the caller.
type MemberFields struct {
	Name         null.String
	Constituency null.String
	SessionName  null.String
	SessionDate  null.String
	SpeechGiven  null.String
	TimeTaken    null.String
	PartyName    null.String
	ImageURL     null.String
	PartyLogoURL null.String
}

// MemberPatch lists the validated fields an update replaces; nil fields are left untouched.
type MemberPatch struct {
	Name         *string
	Constituency *string
	SessionName  *string
	SessionDate  *time.Time
	SpeechGiven  *string
	TimeTaken    *float64
	PartyName    *string
	ImageURL     *string
	PartyLogoURL *string
}

// IsEmpty reports whether the patch changes nothing
func (p MemberPatch) IsEmpty() bool {
	return p.Name == nil && p.Constituency == nil && p.SessionName == nil &&
		p.SessionDate == nil && p.SpeechGiven == nil && p.TimeTaken == nil &&
		p.PartyName == nil && p.ImageURL == nil && p.PartyLogoURL == nil
}

// MemberQuery holds raw list filters from the query string
type MemberQuery struct {
	SessionName string `form:"sessionName"`
	SessionDate string `form:"sessionDate"`
}

// MemberFilter is a normalized list filter. SessionDate, when set, matches the whole UTC day.
type MemberFilter struct {
	SessionName string
	SessionDate *time.Time
}

// FilterOptions feeds the session dropdowns of the client
type FilterOptions struct {
	SessionNames []string `json:"sessionNames"`
	SessionDates []string `json:"sessionDates"`
}

// AttachmentKind names the file area an upload is stored under
type AttachmentKind string

const (
	AttachmentMemberImage AttachmentKind = "members"
	AttachmentPartyLogo   AttachmentKind = "party-logos"
)

// FileUpload is a binary attachment received with a create or update request
type FileUpload struct {
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

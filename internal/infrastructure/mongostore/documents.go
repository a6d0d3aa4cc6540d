package mongostore

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"assembly-directory.backend/internal/domain/entities"
	"assembly-directory.backend/pkg/utils"
)

const (
	membersCollection = "members"
	adminsCollection  = "admins"
)

type memberDocument struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Constituency string    `bson:"constituency"`
	SessionName  string    `bson:"sessionName"`
	SessionDate  time.Time `bson:"sessionDate"`
	SpeechGiven  string    `bson:"speechGiven"`
	TimeTaken    float64   `bson:"timeTaken"`
	PartyName    string    `bson:"partyName"`
	ImageURL     string    `bson:"imageUrl"`
	PartyLogoURL string    `bson:"partyLogoUrl"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

type adminDocument struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

func toMemberDocument(e *entities.Member) memberDocument {
	return memberDocument{
		ID:           e.ID.String(),
		Name:         e.Name,
		Constituency: e.Constituency,
		SessionName:  e.SessionName,
		SessionDate:  e.SessionDate.UTC(),
		SpeechGiven:  e.SpeechGiven,
		TimeTaken:    e.TimeTaken,
		PartyName:    e.PartyName,
		ImageURL:     e.ImageURL,
		PartyLogoURL: e.PartyLogoURL,
		CreatedAt:    e.CreatedAt.UTC(),
		UpdatedAt:    e.UpdatedAt.UTC(),
	}
}

func (d memberDocument) toEntity() (*entities.Member, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	return &entities.Member{
		ID:           id,
		Name:         d.Name,
		Constituency: d.Constituency,
		SessionName:  d.SessionName,
		SessionDate:  d.SessionDate.UTC(),
		SpeechGiven:  d.SpeechGiven,
		TimeTaken:    d.TimeTaken,
		PartyName:    d.PartyName,
		ImageURL:     d.ImageURL,
		PartyLogoURL: d.PartyLogoURL,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}

func (d adminDocument) toEntity() (*entities.Admin, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	return &entities.Admin{
		ID:           id,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}

// listFilter mirrors the SQL list query: equality on sessionName, whole UTC day on sessionDate
func listFilter(filter entities.MemberFilter) bson.M {
	query := bson.M{}
	if filter.SessionName != "" {
		query["sessionName"] = filter.SessionName
	}
	if filter.SessionDate != nil {
		start, end := utils.DayRange(*filter.SessionDate)
		query["sessionDate"] = bson.M{"$gte": start, "$lt": end}
	}
	return query
}

func setDocument(p entities.MemberPatch, now time.Time) bson.M {
	set := bson.M{}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Constituency != nil {
		set["constituency"] = *p.Constituency
	}
	if p.SessionName != nil {
		set["sessionName"] = *p.SessionName
	}
	if p.SessionDate != nil {
		set["sessionDate"] = p.SessionDate.UTC()
	}
	if p.SpeechGiven != nil {
		set["speechGiven"] = *p.SpeechGiven
	}
	if p.TimeTaken != nil {
		set["timeTaken"] = *p.TimeTaken
	}
	if p.PartyName != nil {
		set["partyName"] = *p.PartyName
	}
	if p.ImageURL != nil {
		set["imageUrl"] = *p.ImageURL
	}
	if p.PartyLogoURL != nil {
		set["partyLogoUrl"] = *p.PartyLogoURL
	}
	if len(set) > 0 {
		set["updatedAt"] = now.UTC()
	}
	return set
}

func distinctStrings(values []interface{}) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func distinctTimes(values []interface{}) []time.Time {
	out := make([]time.Time, 0, len(values))
	for _, v := range values {
		switch t := v.(type) {
		case primitive.DateTime:
			out = append(out, t.Time().UTC())
		case time.Time:
			out = append(out, t.UTC())
		}
	}
	return out
}

package event

import (
	"time"

	"go.uber.org/zap/zapcore"
)

// Type is the stable tag identifying a kind of domain event.
type Type string

const (
	CourseCreated        Type = "CURSO_CREADO"
	CourseDeleted        Type = "CURSO_ELIMINADO"
	MaterialAdded        Type = "MATERIAL_AGREGADO"
	AssignmentCreated    Type = "TAREA_CREADA"
	AssignmentGraded     Type = "TAREA_CALIFICADA"
	AssignmentSubmitted  Type = "TAREA_ENTREGADA"
	StudentEnrolled      Type = "ESTUDIANTE_INSCRITO"
	ScholarshipRequested Type = "BECA_SOLICITADA"
)

// Event is an immutable description of something that happened on the
// platform. Build one with New and the With* helpers; every helper returns
// a copy, the original is never touched.
type Event struct {
	Type       Type
	Title      string
	Message    string
	SourceUser int64 // 0 when the event has no originating user
	TargetID   int64
	TargetType string
	OccurredAt time.Time
	Metadata   map[string]interface{}
}

func New(t Type, title, message string) Event {
	return Event{
		Type:       t,
		Title:      title,
		Message:    message,
		OccurredAt: time.Now(),
	}
}

func (e Event) WithSource(userID int64) Event {
	e.SourceUser = userID

	return e
}

func (e Event) WithTarget(id int64, targetType string) Event {
	e.TargetID = id
	e.TargetType = targetType

	return e
}

// WithMeta adds one metadata entry, copying the map so previously built
// events keep their own view.
func (e Event) WithMeta(key string, value interface{}) Event {
	meta := make(map[string]interface{}, len(e.Metadata)+1)

	for k, v := range e.Metadata {
		meta[k] = v
	}

	meta[key] = value
	e.Metadata = meta

	return e
}

func (e Event) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("type", string(e.Type))
	encoder.AddString("title", e.Title)
	encoder.AddInt64("target_id", e.TargetID)
	encoder.AddString("target_type", e.TargetType)
	encoder.AddTime("occurred_at", e.OccurredAt)

	return nil
}

// Package convert maps domain messages to and from protobuf well-known types.
package convert

import (
	"fmt"
	"strconv"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/and161185/motd/internal/model"
)

// Field names shared by the gRPC payload and the badger value encoding.
const (
	FieldID        = "id"
	FieldText      = "text"
	FieldCreator   = "creator"
	FieldCreatedAt = "created_at"
	FieldEmpty     = "empty"
)

// --- Message (server -> client) ---

// ToProtoMessage converts a domain message to a protobuf Struct.
// The id is a decimal string since Struct numbers are float64.
func ToProtoMessage(m model.Message) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldID:        structpb.NewStringValue(strconv.FormatInt(m.ID, 10)),
		FieldText:      structpb.NewStringValue(m.Text),
		FieldCreator:   structpb.NewStringValue(m.Creator),
		FieldCreatedAt: structpb.NewStringValue(m.CreatedAt.UTC().Format(time.RFC3339Nano)),
	}}
}

// ToProtoEmpty returns the payload sent when the store holds no messages.
func ToProtoEmpty() *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldEmpty: structpb.NewBoolValue(true),
	}}
}

// IsEmpty reports whether s is the empty-store marker.
func IsEmpty(s *structpb.Struct) bool {
	if s == nil {
		return false
	}
	return s.GetFields()[FieldEmpty].GetBoolValue()
}

// FromProtoMessage converts a protobuf Struct back into a domain message.
func FromProtoMessage(s *structpb.Struct) (model.Message, error) {
	if s == nil {
		return model.Message{}, fmt.Errorf("nil message")
	}
	f := s.GetFields()

	idv, ok := f[FieldID].GetKind().(*structpb.Value_StringValue)
	if !ok {
		return model.Message{}, fmt.Errorf("missing %s", FieldID)
	}
	id, err := strconv.ParseInt(idv.StringValue, 10, 64)
	if err != nil || id < 0 {
		return model.Message{}, fmt.Errorf("invalid %s: %q", FieldID, idv.StringValue)
	}

	var createdAt time.Time
	if raw := f[FieldCreatedAt].GetStringValue(); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return model.Message{}, fmt.Errorf("invalid %s: %w", FieldCreatedAt, err)
		}
		createdAt = t.UTC()
	}

	return model.Message{
		ID:        id,
		Text:      f[FieldText].GetStringValue(),
		Creator:   f[FieldCreator].GetStringValue(),
		CreatedAt: createdAt,
	}, nil
}

// --- binary form ---

// MarshalMessage encodes m as protobuf wire bytes.
func MarshalMessage(m model.Message) ([]byte, error) {
	return proto.Marshal(ToProtoMessage(m))
}

// UnmarshalMessage decodes bytes produced by MarshalMessage.
func UnmarshalMessage(b []byte) (model.Message, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(b, &s); err != nil {
		return model.Message{}, err
	}
	return FromProtoMessage(&s)
}

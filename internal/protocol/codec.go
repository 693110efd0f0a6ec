package protocol

import (
	"encoding/json"

	"github.com/vovakirdan/tui-dungeon/internal/errors"
)

// Encode frames a message in its envelope.
func Encode(msg Message) ([]byte, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeProtocol, "encode payload")
	}
	data, err := json.Marshal(Envelope{Type: msg.MessageType(), Payload: payload})
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeProtocol, "encode envelope")
	}
	return data, nil
}

// Decode parses an envelope and its payload. Anything malformed, including
// unknown types and missing required fields, is a PROTOCOL error.
func Decode(data []byte) (Message, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeProtocol, "malformed envelope")
	}

	var msg Message
	switch env.Type {
	case TypeRegister:
		var m Register
		if err := unmarshal(env, &m); err != nil {
			return nil, err
		}
		if m.Name == "" {
			return nil, errors.Protocol("register: missing name")
		}
		msg = m
	case TypeRegistered:
		var m Registered
		if err := unmarshal(env, &m); err != nil {
			return nil, err
		}
		msg = m
	case TypeRejected:
		var m Rejected
		if err := unmarshal(env, &m); err != nil {
			return nil, err
		}
		msg = m
	case TypeLevelStart:
		var m LevelStart
		if err := unmarshal(env, &m); err != nil {
			return nil, err
		}
		msg = m
	case TypeTurnRequest:
		var m TurnRequest
		if err := unmarshal(env, &m); err != nil {
			return nil, err
		}
		msg = m
	case TypeTurnResponse:
		var m TurnResponse
		if err := unmarshal(env, &m); err != nil {
			return nil, err
		}
		if err := requireFields(env, "level", "round", "destination"); err != nil {
			return nil, err
		}
		msg = m
	case TypeStateUpdate:
		var m StateUpdate
		if err := unmarshal(env, &m); err != nil {
			return nil, err
		}
		msg = m
	case TypeLevelEnd:
		var m LevelEnd
		if err := unmarshal(env, &m); err != nil {
			return nil, err
		}
		msg = m
	case TypeGameEnd:
		var m GameEnd
		if err := unmarshal(env, &m); err != nil {
			return nil, err
		}
		msg = m
	case TypeError:
		var m Error
		if err := unmarshal(env, &m); err != nil {
			return nil, err
		}
		msg = m
	case "":
		return nil, errors.Protocol("missing message type")
	default:
		return nil, errors.Protocolf("unknown message type %q", env.Type).WithMeta("type", string(env.Type))
	}
	return msg, nil
}

func unmarshal(env Envelope, dst any) error {
	if len(env.Payload) == 0 {
		return errors.Protocolf("%s: missing payload", env.Type)
	}
	if err := json.Unmarshal(env.Payload, dst); err != nil {
		return errors.WrapWithCode(err, errors.CodeProtocol, string(env.Type)+": malformed payload")
	}
	return nil
}

// requireFields reports the first of fields absent from the payload or null.
func requireFields(env Envelope, fields ...string) error {
	var present map[string]json.RawMessage
	if err := json.Unmarshal(env.Payload, &present); err != nil {
		return errors.WrapWithCode(err, errors.CodeProtocol, string(env.Type)+": malformed payload")
	}
	for _, f := range fields {
		if v, ok := present[f]; !ok || string(v) == "null" {
			return errors.Protocolf("%s: missing %s", env.Type, f).WithMeta("field", f)
		}
	}
	return nil
}

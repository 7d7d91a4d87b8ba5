package transport

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

// wireHeaderSize is [Type:1][Len:4], matching the fixed-header framing
// style of a length-prefixed stream protocol: one byte for the message
// type, four for the JSON payload length, then the payload itself.
const wireHeaderSize = 5

// encode writes one framed message: a 1-byte type tag, a 4-byte
// big-endian length, and the JSON-encoded body.
func encode(w io.Writer, msgType MessageType, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	header := make([]byte, wireHeaderSize)
	header[0] = byte(msgType)
	binary.BigEndian.PutUint32(header[1:5], uint32(len(payload)))

	if _, err := w.Write(header); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

// maxPayloadSize bounds a single frame so a corrupt or hostile peer cannot
// force an unbounded allocation before the JSON decode even starts.
const maxPayloadSize = 1 << 20

// decode reads one framed message and unmarshals it into the matching
// Envelope field.
func decode(r io.Reader) (Envelope, error) {
	header := make([]byte, wireHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return Envelope{}, err
	}
	msgType := MessageType(header[0])
	length := binary.BigEndian.Uint32(header[1:5])
	if length > maxPayloadSize {
		return Envelope{}, fmt.Errorf("transport: frame of %d bytes exceeds max %d", length, maxPayloadSize)
	}

	payload := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return Envelope{}, err
		}
	}

	env := Envelope{Type: msgType}
	switch msgType {
	case MessageCommand:
		var cp CommandPayload
		if err := json.Unmarshal(payload, &cp); err != nil {
			return Envelope{}, err
		}
		env.Command = &cp
	case MessageChecksum:
		var cs ChecksumPayload
		if err := json.Unmarshal(payload, &cs); err != nil {
			return Envelope{}, err
		}
		env.Checksum = &cs
	case MessageQuit:
		var q QuitPayload
		if err := json.Unmarshal(payload, &q); err != nil {
			return Envelope{}, err
		}
		env.Quit = &q
	default:
		return Envelope{}, fmt.Errorf("transport: unknown message type %d", msgType)
	}
	return env, nil
}

// encodeWSFrame/decodeWSFrame adapt the stream codec to a websocket's
// message-framed transport, which already delimits frames — there is no
// TCP-style byte stream to length-prefix, so these wrap a single encode/
// decode call around an in-memory buffer instead of a live connection.
func encodeWSFrame(env Envelope) ([]byte, error) {
	msgType, body, err := bodyOf(env)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := encode(&buf, msgType, body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeWSFrame(data []byte) (Envelope, error) {
	return decode(bytes.NewReader(data))
}

func bodyOf(env Envelope) (MessageType, any, error) {
	switch env.Type {
	case MessageCommand:
		if env.Command == nil {
			return 0, nil, fmt.Errorf("transport: command envelope missing payload")
		}
		return MessageCommand, env.Command, nil
	case MessageChecksum:
		if env.Checksum == nil {
			return 0, nil, fmt.Errorf("transport: checksum envelope missing payload")
		}
		return MessageChecksum, env.Checksum, nil
	case MessageQuit:
		if env.Quit == nil {
			return 0, nil, fmt.Errorf("transport: quit envelope missing payload")
		}
		return MessageQuit, env.Quit, nil
	default:
		return 0, nil, fmt.Errorf("transport: unknown envelope type %d", env.Type)
	}
}

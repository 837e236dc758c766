// Package protocol implements the Maelstrom network message protocol: the
// {src, dest, body} envelope, the body's layered discriminated unions, and
// the newline-delimited JSON line codec.
package protocol

import (
	"encoding/json"

	maelstrom "github.com/bnjmnt/go-maelstrom"
)

// Message is a Maelstrom network message envelope containing a source node
// identifier, a destination node identifier, and a body.
//
// A is the application-defined node-to-node body type; use struct{} when the
// application exchanges no node-to-node messages.
//
// A message is immutable once constructed: it is created, passed through
// exactly one queue hop, and dropped after being encoded or consumed.
type Message[A any] struct {
	Src  maelstrom.ID `json:"src"`
	Dest maelstrom.ID `json:"dest"`
	Body Body[A]      `json:"body"`
}

// Body is a Maelstrom message body: a closed union over the harness-defined
// body categories plus an application-defined payload. The union is untagged
// on the wire; the populated member is distinguished by substructure. Exactly
// one member is non-nil.
//
// Because the outer union is untagged, decoding tries the categories in a
// fixed priority order: Workload, Init/InitOk, Error, then the application
// payload. An application payload that structurally aliases a built-in
// category (for example, one carrying a type field valued "echo") decodes as
// the built-in. This ambiguity is inherited from the harness protocol.
type Body[A any] struct {
	// Workload is a harness-defined workload client body (echo, lin-kv, ...).
	Workload Workload
	// Init is the harness-defined node initialization request.
	Init *Init
	// InitOk is the node's initialization acknowledgement.
	InitOk *InitOk
	// Error is the harness-defined error response body.
	Error *Error
	// App is an application-defined node-to-node body. Applications may
	// exchange any body structure they like; they are not limited to
	// request-response.
	App *A
}

// Workload is a harness-defined workload client body. Concrete variants are
// tagged on the wire by their type field.
type Workload interface {
	workloadType() string
}

// Echo is an echo workload request.
type Echo struct {
	MsgID maelstrom.MsgID `json:"msg_id"`
	Echo  maelstrom.Val   `json:"echo"`
}

// EchoOk is an echo workload response. MsgID is the responder's own optional
// message identifier: it appears on the wire only when supplied.
type EchoOk struct {
	InReplyTo maelstrom.MsgID  `json:"in_reply_to"`
	MsgID     *maelstrom.MsgID `json:"msg_id,omitempty"`
	Echo      maelstrom.Val    `json:"echo"`
}

// Read is a lin-kv read request.
type Read struct {
	MsgID maelstrom.MsgID `json:"msg_id"`
	Key   maelstrom.Key   `json:"key"`
}

// ReadOk is a lin-kv read response.
type ReadOk struct {
	InReplyTo maelstrom.MsgID  `json:"in_reply_to"`
	MsgID     *maelstrom.MsgID `json:"msg_id,omitempty"`
	Value     maelstrom.Val    `json:"value"`
}

// Write is a lin-kv write request.
type Write struct {
	MsgID maelstrom.MsgID `json:"msg_id"`
	Key   maelstrom.Key   `json:"key"`
	Val   maelstrom.Val   `json:"val"`
}

// WriteOk is a lin-kv write response.
type WriteOk struct {
	InReplyTo maelstrom.MsgID `json:"in_reply_to"`
}

// Cas is a lin-kv compare-and-set request.
type Cas struct {
	MsgID maelstrom.MsgID `json:"msg_id"`
	Key   maelstrom.Key   `json:"key"`
	From  maelstrom.Val   `json:"from"`
	To    maelstrom.Val   `json:"to"`
}

// CasOk is a lin-kv compare-and-set response.
type CasOk struct {
	InReplyTo maelstrom.MsgID  `json:"in_reply_to"`
	MsgID     *maelstrom.MsgID `json:"msg_id,omitempty"`
}

// Init is the harness-defined node initialization request. It is the first
// message every node receives, and the runtime answers it before the
// application runs.
type Init struct {
	MsgID   maelstrom.MsgID `json:"msg_id"`
	NodeID  maelstrom.ID    `json:"node_id"`
	NodeIDs []maelstrom.ID  `json:"node_ids"`
}

// InitOk acknowledges an Init. MsgID is the first message identifier the
// responding node consumed.
type InitOk struct {
	InReplyTo maelstrom.MsgID `json:"in_reply_to"`
	MsgID     maelstrom.MsgID `json:"msg_id"`
}

// Error is the harness-defined error response body.
type Error struct {
	InReplyTo maelstrom.MsgID     `json:"in_reply_to"`
	Code      maelstrom.ErrorCode `json:"code"`
	Text      string              `json:"text"`
}

// Wire tags for the harness-defined tagged bodies.
const (
	typeEcho    = "echo"
	typeEchoOk  = "echo_ok"
	typeRead    = "read"
	typeReadOk  = "read_ok"
	typeWrite   = "write"
	typeWriteOk = "write_ok"
	typeCas     = "cas"
	typeCasOk   = "cas_ok"
	typeInit    = "init"
	typeInitOk  = "init_ok"
	typeError   = "error"
)

func (Echo) workloadType() string    { return typeEcho }
func (EchoOk) workloadType() string  { return typeEchoOk }
func (Read) workloadType() string    { return typeRead }
func (ReadOk) workloadType() string  { return typeReadOk }
func (Write) workloadType() string   { return typeWrite }
func (WriteOk) workloadType() string { return typeWriteOk }
func (Cas) workloadType() string     { return typeCas }
func (CasOk) workloadType() string   { return typeCasOk }

// MarshalJSON emits the variant with its leading type tag.
func (b Echo) MarshalJSON() ([]byte, error) {
	type alias Echo
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{typeEcho, alias(b)})
}

func (b EchoOk) MarshalJSON() ([]byte, error) {
	type alias EchoOk
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{typeEchoOk, alias(b)})
}

func (b Read) MarshalJSON() ([]byte, error) {
	type alias Read
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{typeRead, alias(b)})
}

func (b ReadOk) MarshalJSON() ([]byte, error) {
	type alias ReadOk
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{typeReadOk, alias(b)})
}

func (b Write) MarshalJSON() ([]byte, error) {
	type alias Write
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{typeWrite, alias(b)})
}

func (b WriteOk) MarshalJSON() ([]byte, error) {
	type alias WriteOk
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{typeWriteOk, alias(b)})
}

func (b Cas) MarshalJSON() ([]byte, error) {
	type alias Cas
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{typeCas, alias(b)})
}

func (b CasOk) MarshalJSON() ([]byte, error) {
	type alias CasOk
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{typeCasOk, alias(b)})
}

func (b Init) MarshalJSON() ([]byte, error) {
	type alias Init
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{typeInit, alias(b)})
}

func (b InitOk) MarshalJSON() ([]byte, error) {
	type alias InitOk
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{typeInitOk, alias(b)})
}

func (b Error) MarshalJSON() ([]byte, error) {
	type alias Error
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{typeError, alias(b)})
}

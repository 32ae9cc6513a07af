package grpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName is the content subtype clients select with
// grpc.CallContentSubtype to talk to the auth service.
const CodecName = "json"

// jsonCodec lets the service run without generated protobuf stubs. The
// wire framing is ordinary gRPC; only the message encoding is JSON.
//
// init registers it in grpc's process-wide codec registry under "json",
// so it replaces any other "json" codec in the binary and every server and
// client in the process sees it. Messages without a subtype still use proto.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return CodecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

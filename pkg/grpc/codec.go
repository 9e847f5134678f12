package grpc

import (
	"encoding/json"
)

const codecName = "json"

// Codec carries the console messages as JSON on the wire. Both ends must use
// it: servers via grpc.ForceServerCodec, clients get it from Client.
var Codec = jsonCodec{}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return codecName
}

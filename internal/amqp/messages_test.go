package amqp

import (
	"encoding/json"
	"testing"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	body, err := encodeEnvelope(KindTransactionSync, TransactionSyncMessage{ID: "tx-1"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	env, err := DecodeEnvelope(body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Kind != KindTransactionSync {
		t.Fatalf("kind: got %q", env.Kind)
	}

	var msg TransactionSyncMessage
	if err := json.Unmarshal(env.Payload, &msg); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if msg.ID != "tx-1" {
		t.Fatalf("id: got %q", msg.ID)
	}
}

func TestDecodeEnvelopeRejectsGarbage(t *testing.T) {
	if _, err := DecodeEnvelope([]byte("not json")); err == nil {
		t.Fatal("expected error")
	}
}

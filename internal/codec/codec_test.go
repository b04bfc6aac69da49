package codec

import (
	"testing"
)

type pingRequest struct {
	Nonce uint32 `json:"nonce"`
}

func TestJSONStrictRoundTrip(t *testing.T) {
	data, err := JSONStrict.Marshal(pingRequest{Nonce: 7})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out pingRequest
	if err := JSONStrict.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Nonce != 7 {
		t.Fatalf("expected nonce 7, got %d", out.Nonce)
	}
}

func TestJSONStrictRejectsUnknownFields(t *testing.T) {
	var out pingRequest
	if err := JSONStrict.Unmarshal([]byte(`{"nonce":1,"extra":true}`), &out); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestJSONStrictRejectsTrailingContent(t *testing.T) {
	var out pingRequest
	if err := JSONStrict.Unmarshal([]byte(`{"nonce":1}{"nonce":2}`), &out); err == nil {
		t.Fatalf("expected trailing content error")
	}
}

func TestJSONStrictRejectsGarbage(t *testing.T) {
	var out pingRequest
	if err := JSONStrict.Unmarshal([]byte{0xff, 0x00, 0x41}, &out); err == nil {
		t.Fatalf("expected decode error")
	}
}

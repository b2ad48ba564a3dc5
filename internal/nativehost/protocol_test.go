package nativehost

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestReadMessage(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		want    []byte
		wantErr bool
	}{
		{"simple", append([]byte{5, 0, 0, 0}, "hello"...), []byte("hello"), false},
		{"empty", []byte{0, 0, 0, 0}, []byte{}, false},
		{"json", append([]byte{8, 0, 0, 0}, `{"id":1}`...), []byte(`{"id":1}`), false},
		{"short header", []byte{5, 0}, nil, true},
		{"short body", append([]byte{10, 0, 0, 0}, "short"...), nil, true},
		{"oversized", []byte{0, 0, 0, 64}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadMessage(bytes.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadMessage() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !bytes.Equal(got, tt.want) {
				t.Errorf("ReadMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteMessage(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMessage(&buf, []byte("hello")); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	want := append([]byte{5, 0, 0, 0}, "hello"...)
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("WriteMessage wrote %v, want %v", buf.Bytes(), want)
	}

	buf.Reset()
	if err := WriteMessage(&buf, make([]byte, MaxMessageSize+1)); err == nil {
		t.Error("WriteMessage accepted an oversized message")
	}
	if buf.Len() != 0 {
		t.Errorf("oversized message wrote %d bytes", buf.Len())
	}
}

func TestRoundTrip(t *testing.T) {
	msg := []byte(`{"id":3,"method":"processResponse","message":{"url":"https://example.com/"}}`)
	var buf bytes.Buffer
	if err := WriteMessage(&buf, msg); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	got, err := ReadMessage(&buf)
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	req, err := ParseRequest(got)
	if err != nil {
		t.Fatalf("ParseRequest: %v", err)
	}
	if req.ID != 3 || req.Method != "processResponse" {
		t.Errorf("request = %+v", req)
	}
	if string(req.Message) != `{"url":"https://example.com/"}` {
		t.Errorf("message = %s", req.Message)
	}
}

func TestParseRequestInvalid(t *testing.T) {
	if _, err := ParseRequest([]byte(`{invalid`)); err == nil {
		t.Error("ParseRequest accepted invalid JSON")
	}
}

func TestMakeResponses(t *testing.T) {
	var ok Response
	if err := json.Unmarshal(MakeSuccessResponse(7, map[string]bool{"success": true}), &ok); err != nil {
		t.Fatal(err)
	}
	if ok.ID != 7 || !ok.Ok || ok.Error != "" {
		t.Errorf("success response = %+v", ok)
	}

	var bad Response
	if err := json.Unmarshal(MakeErrorResponse(8, errors.New("boom")), &bad); err != nil {
		t.Fatal(err)
	}
	if bad.ID != 8 || bad.Ok || bad.Error != "boom" {
		t.Errorf("error response = %+v", bad)
	}

	var unknown Response
	if err := json.Unmarshal(MakeErrorResponse(9, nil), &unknown); err != nil {
		t.Fatal(err)
	}
	if unknown.Error != "unknown error" {
		t.Errorf("nil error response = %+v", unknown)
	}

	// Channels cannot be encoded.
	var enc Response
	if err := json.Unmarshal(MakeSuccessResponse(10, make(chan int)), &enc); err != nil {
		t.Fatal(err)
	}
	if enc.Ok || enc.ID != 10 {
		t.Errorf("unencodable result response = %+v", enc)
	}
}

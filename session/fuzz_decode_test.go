package session

import (
	"testing"
	"time"

	"github.com/MrEthical07/sessionauth/permission"
)

// FuzzSessionDecode exercises the record decoder with arbitrary inputs.
// Goal: no panics, and anything that decodes must re-encode.
func FuzzSessionDecode(f *testing.F) {
	rec := &Record{
		Subject:      "user1",
		DisplayName:  "User One",
		Role:         permission.Admin,
		CreatedAt:    time.Unix(1700000000, 0).UTC(),
		LastActivity: time.Unix(1700000000, 0).UTC(),
	}
	encoded, err := Encode(rec)
	if err == nil {
		f.Add(encoded)
	}

	f.Add([]byte{})
	f.Add([]byte("null"))
	f.Add([]byte(`{"v":99,"user_id":"u"}`))
	f.Add([]byte(`{"user_id":"u","role":"root"}`))
	f.Add([]byte(`{"user_id":"u","role":"user","created_at":"yesterday"}`))

	f.Fuzz(func(t *testing.T, data []byte) {
		got, err := Decode(data)
		if err != nil {
			return
		}
		if got == nil {
			t.Fatal("Decode returned nil record without error")
		}
		if got.Role != permission.Unknown {
			if _, err := Encode(got); err != nil {
				t.Fatalf("re-encode failed: %v", err)
			}
		}
	})
}

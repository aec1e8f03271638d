package domain

import (
	"encoding/json"
	"testing"
)

func TestShortenWallet(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"EH1UKhLL9MTny9sCCGGrzVrbBAVAL6V3XsBXZvQ4wfe8", "EH1U...wfe8"},
		{"123456789", "1234...6789"},
		{"12345678", "12345678"},
		{"abc", "abc"},
		{"  ABCDEFGHIJ  ", "ABCD...GHIJ"},
	}
	for _, tc := range cases {
		if got := ShortenWallet(tc.in); got != tc.want {
			t.Fatalf("ShortenWallet(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestRecentWinJSON(t *testing.T) {
	b, err := json.Marshal(RecentWin{WalletShort: "EH1U...wfe8", Prize: "NFT!"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"walletShort":"EH1U...wfe8","prize":"NFT!"}` {
		t.Fatalf("unexpected layout %s", b)
	}

	var legacy []RecentWin
	if err := json.Unmarshal([]byte(`[{"wallet":"AAAA...BBBB","prize":"Merch"}]`), &legacy); err != nil {
		t.Fatalf("unmarshal legacy: %v", err)
	}
	if legacy[0].WalletShort != "AAAA...BBBB" || legacy[0].Prize != "Merch" {
		t.Fatalf("legacy entry decoded as %+v", legacy[0])
	}
}

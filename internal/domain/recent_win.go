package domain

import (
	"encoding/json"
	"strings"
)

// RecentWinsLimit is the maximum number of entries the recent winners log keeps
const RecentWinsLimit = 5

// RecentWin is one entry of the recent winners log
type RecentWin struct {
	WalletShort string `json:"walletShort" bson:"walletShort"`
	Prize       string `json:"prize" bson:"prize"`
}

// UnmarshalJSON also accepts the older {"wallet": ...} layout
func (w *RecentWin) UnmarshalJSON(b []byte) error {
	var raw struct {
		WalletShort string `json:"walletShort"`
		Wallet      string `json:"wallet"`
		Prize       string `json:"prize"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	w.WalletShort = raw.WalletShort
	if w.WalletShort == "" {
		w.WalletShort = raw.Wallet
	}
	w.Prize = raw.Prize
	return nil
}

// ShortenWallet returns the display-safe form of a wallet identifier:
// first 4 and last 4 characters joined by an ellipsis. Identifiers of 8
// characters or fewer are returned unchanged.
func ShortenWallet(wallet string) string {
	wallet = strings.TrimSpace(wallet)
	r := []rune(wallet)
	if len(r) <= 8 {
		return wallet
	}
	return string(r[:4]) + "..." + string(r[len(r)-4:])
}

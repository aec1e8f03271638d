package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"prize_wheel/internal/service"
)

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ws_smoke opens a widget socket against a running server, confirms the
// payment over HTTP, spins once and prints the result
func main() {
	wallet := flag.String("wallet", "SmokeWallet000000000001", "wallet to spin as")
	flag.Parse()

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET not set")
	}
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	service.InitJWT("")
	token, err := service.GenerateJWT(*wallet)
	if err != nil {
		log.Fatalf("gen token: %v", err)
	}

	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	base := fmt.Sprintf("127.0.0.1:%s", port)
	conn, _, err := websocket.DefaultDialer.Dial("ws://"+base+"/ws?token="+token, nil)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	readUntil := func(want string, timeout time.Duration) message {
		deadline := time.Now().Add(timeout)
		frames := 0
		for {
			conn.SetReadDeadline(deadline)
			_, b, err := conn.ReadMessage()
			if err != nil {
				log.Fatalf("waiting for %s: %v", want, err)
			}
			var m message
			if err := json.Unmarshal(b, &m); err != nil {
				log.Fatalf("bad message: %s", b)
			}
			switch m.Type {
			case want:
				if frames > 0 {
					log.Printf("%d frames before %s", frames, want)
				}
				return m
			case "frame":
				frames++
			case "error":
				log.Fatalf("server error: %s", m.Payload)
			}
		}
	}

	ready := readUntil("ready", 2*time.Second)
	var rp struct {
		SessionID string `json:"session_id"`
	}
	_ = json.Unmarshal(ready.Payload, &rp)
	log.Printf("session %s ready", rp.SessionID)

	body, _ := json.Marshal(map[string]string{"session_id": rp.SessionID})
	req, _ := http.NewRequest(http.MethodPost, "http://"+base+"/api/v1/wheel/eligibility", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("eligibility: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("eligibility: status %d", resp.StatusCode)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"spin"}`)); err != nil {
		log.Fatalf("write spin: %v", err)
	}

	res := readUntil("result", 15*time.Second)
	log.Printf("result: %s", res.Payload)
	log.Println("smoke test finished")
}

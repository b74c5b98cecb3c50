package main

import (
	"bytes"
	"fmt"
	"net/http"
	"os/exec"
	"time"
)

// Manual probe against a locally running server. It exercises the two
// failure paths that are hard to cover in unit tests: the store
// failover when Redis dies, and the per-IP login lockout.
//
// Run the server (CUSTOM_PASSWORD=probe-pw), then: go run ./tests/chaos

const base = "http://localhost:8080"

func main() {
	fmt.Println("Chaos probe: Redis failover + login lockout")

	// 1. Sanity: server reachable.
	resp, err := http.Get(base + "/health")
	if err != nil {
		fmt.Printf("server not reachable: %v\n", err)
		return
	}
	fmt.Printf("health: %d\n", resp.StatusCode)

	// 2. Lockout: hammer login with a wrong password. The 5th failure
	// trips the lockout, so it and everything after come back 403.
	for i := 1; i <= 6; i++ {
		status := postLogin("definitely-wrong")
		fmt.Printf("bad login %d -> %d\n", i, status)
		if i <= 4 && status != 401 {
			fmt.Println("FAIL: expected 401 before lockout")
		}
		if i >= 5 && status != 403 {
			fmt.Printf("FAIL: expected 403 lockout on attempt %d\n", i)
		}
	}

	// 3. Kill Redis and confirm the API degrades instead of 500ing.
	fmt.Println("stopping redis...")
	if err := exec.Command("docker-compose", "stop", "redis").Run(); err != nil {
		fmt.Printf("could not stop redis (is docker-compose up?): %v\n", err)
		return
	}
	time.Sleep(2 * time.Second)

	// The breaker needs a few failures to trip, so probe repeatedly.
	for i := 0; i < 5; i++ {
		resp, err := http.Get(base + "/api/settings")
		if err != nil {
			fmt.Printf("settings probe error: %v\n", err)
			continue
		}
		fmt.Printf("settings with redis down -> %d\n", resp.StatusCode)
		if resp.StatusCode >= 500 && i == 4 {
			fmt.Println("FAIL: still 500 after breaker should have opened")
		}
		time.Sleep(500 * time.Millisecond)
	}

	resp, err = http.Get(base + "/ready")
	if err == nil {
		fmt.Printf("ready: %d (expect degraded body)\n", resp.StatusCode)
	}

	fmt.Println("restarting redis...")
	exec.Command("docker-compose", "start", "redis").Run()
	fmt.Println("done; the breaker should close again within ~10s")
}

func postLogin(password string) int {
	body := []byte(fmt.Sprintf(`{"password":%q}`, password))
	req, _ := http.NewRequest(http.MethodPost, base+"/api/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Dynamic-Lock", currentLock())
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0
	}
	resp.Body.Close()
	return resp.StatusCode
}

func currentLock() string {
	resp, err := http.Get(base + "/api/dynamic-lock")
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	// cheap extraction, the payload is {"uuid":"...","expiryTime":...}
	s := buf.String()
	const marker = `"uuid":"`
	i := bytes.Index([]byte(s), []byte(marker))
	if i < 0 {
		return ""
	}
	rest := s[i+len(marker):]
	j := bytes.IndexByte([]byte(rest), '"')
	if j < 0 {
		return ""
	}
	return rest[:j]
}

package lastfm

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"time"
)

// DefaultCallbackAddr is where the callback server listens when no address
// is configured. Last.fm redirects the browser back to it.
const DefaultCallbackAddr = "127.0.0.1:9847"

const callbackPath = "/callback"

var callbackPage = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
<head><title>Wavecast - Last.fm</title></head>
<body style="font-family: sans-serif; text-align: center; padding: 50px;">
{{if .}}<h1>Last.fm linked</h1>
<p>Scrobbling is ready. You can close this tab and go back to Wavecast.</p>
{{else}}<h1>Last.fm link failed</h1>
<p>Last.fm sent no token. Start the link again from Wavecast.</p>
{{end}}</body>
</html>
`))

// AuthServer receives the browser redirect that completes the web
// authorization flow. It accepts the first token and ignores later ones.
type AuthServer struct {
	server   *http.Server
	listener net.Listener
	tokens   chan string
	done     chan struct{}
}

// StartAuthServer listens on addr, or DefaultCallbackAddr when addr is
// empty, and serves the callback page.
func StartAuthServer(addr string) (*AuthServer, error) {
	if addr == "" {
		addr = DefaultCallbackAddr
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	as := &AuthServer{
		listener: listener,
		tokens:   make(chan string, 1),
		done:     make(chan struct{}),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+callbackPath, as.handleCallback)
	as.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		_ = as.server.Serve(listener)
		close(as.done)
	}()

	return as, nil
}

func (as *AuthServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if token == "" {
		w.WriteHeader(http.StatusBadRequest)
	}
	_ = callbackPage.Execute(w, token != "")

	if token == "" {
		return
	}
	select {
	case as.tokens <- token:
	default:
	}
}

// CallbackURL is the address Last.fm should redirect the browser to.
func (as *AuthServer) CallbackURL() string {
	return "http://" + as.listener.Addr().String() + callbackPath
}

// Wait blocks until a token arrives or ctx is done.
func (as *AuthServer) Wait(ctx context.Context) (string, error) {
	select {
	case token := <-as.tokens:
		return token, nil
	case <-ctx.Done():
		return "", ctx.Err()
	case <-as.done:
		return "", errors.New("auth server closed")
	}
}

// Shutdown stops the auth server.
func (as *AuthServer) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = as.server.Shutdown(ctx)
	<-as.done
}

// OpenBrowser opens the given URL in the default browser.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

// Package flash carries one-shot user messages across a redirect in a cookie.
package flash

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
)

const CookieName = "resala_flash"

// Categories used by the templates
const (
	Success = "success"
	Danger  = "danger"
	Warning = "warning"
	Info    = "info"
)

type Message struct {
	Category string `json:"c"`
	Text     string `json:"t"`
}

type state struct {
	incoming []Message // read from the request cookie
	pending  []Message // added while handling this request
}

type ctxKey struct{}

// Middleware decodes the flash cookie once per request
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st := &state{incoming: decode(r)}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, st)))
	})
}

func from(r *http.Request) *state {
	if st, ok := r.Context().Value(ctxKey{}).(*state); ok {
		return st
	}
	return &state{incoming: decode(r)}
}

// Add queues a message. It is written to the cookie immediately so it survives a redirect,
// and returned by Consume if the current request renders a page instead.
// Without Middleware only the last message added in a request is kept.
func Add(w http.ResponseWriter, r *http.Request, category, text string) {
	st := from(r)
	st.pending = append(st.pending, Message{Category: category, Text: text})
	setCookie(w, append(append([]Message{}, st.incoming...), st.pending...))
}

// Consume returns every message for this render and clears the cookie
func Consume(w http.ResponseWriter, r *http.Request) []Message {
	st := from(r)
	msgs := append(append([]Message{}, st.incoming...), st.pending...)
	st.incoming, st.pending = nil, nil

	dropSetCookie(w)
	if _, err := r.Cookie(CookieName); err == nil {
		http.SetCookie(w, &http.Cookie{Name: CookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	}
	return msgs
}

func setCookie(w http.ResponseWriter, msgs []Message) {
	data, err := json.Marshal(msgs)
	if err != nil {
		return
	}
	dropSetCookie(w)
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    base64.RawURLEncoding.EncodeToString(data),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// dropSetCookie removes a flash cookie queued earlier in the same response
func dropSetCookie(w http.ResponseWriter) {
	h := w.Header()
	kept := h["Set-Cookie"][:0]
	for _, c := range h["Set-Cookie"] {
		if !strings.HasPrefix(c, CookieName+"=") {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		h.Del("Set-Cookie")
		return
	}
	h["Set-Cookie"] = kept
}

func decode(r *http.Request) []Message {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	data, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var msgs []Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil
	}
	return msgs
}

// Package client talks to a chat-hub server over its REST API and realtime stream.
package client

import (
	"bytes"
	"chat-hub/domain"
	"chat-hub/domain/event"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/samber/lo"
)

// APIError is a non-2xx answer of the server.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server answered %d: %s", e.Status, e.Detail)
}

type User struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Created  time.Time `json:"created_at"`
}

type Chat struct {
	ID            string     `json:"id"`
	Name          *string    `json:"name"`
	IsGroup       bool       `json:"is_group"`
	Participants  []string   `json:"participants"`
	CreatedBy     string     `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
	LastMessageAt *time.Time `json:"last_message_at"`
}

// Upload is a file materialized by the server, ready to be attached to a message.
type Upload struct {
	FileData string `json:"file_data"`
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
	Size     int    `json:"size"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// Client is safe for concurrent use once the token is set.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Token() string { return c.token }

func (c *Client) WithToken(token string) *Client {
	c.token = token
	return c
}

func (c *Client) Register(ctx context.Context, username, email, password string) (User, error) {
	var resp tokenResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/register",
		map[string]string{"username": username, "email": email, "password": password}, &resp)
	if err != nil {
		return User{}, err
	}
	c.token = resp.AccessToken
	return resp.User, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (User, error) {
	var resp tokenResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login",
		map[string]string{"username": username, "password": password}, &resp)
	if err != nil {
		return User{}, err
	}
	c.token = resp.AccessToken
	return resp.User, nil
}

func (c *Client) Me(ctx context.Context) (User, error) {
	var user User
	return user, c.do(ctx, http.MethodGet, "/api/users/me", nil, &user)
}

func (c *Client) SearchUsers(ctx context.Context, term string) ([]User, error) {
	var users []User
	return users, c.do(ctx, http.MethodGet, "/api/users/search?q="+url.QueryEscape(term), nil, &users)
}

// OpenChat creates a group when name is set, a private chat with the single participant otherwise.
func (c *Client) OpenChat(ctx context.Context, name string, participants ...string) (Chat, error) {
	var chat Chat
	body := map[string]any{
		"name":         lo.EmptyableToPtr(name),
		"is_group":     name != "",
		"participants": participants,
	}
	return chat, c.do(ctx, http.MethodPost, "/api/chats", body, &chat)
}

func (c *Client) ListChats(ctx context.Context) ([]Chat, error) {
	var chats []Chat
	return chats, c.do(ctx, http.MethodGet, "/api/chats", nil, &chats)
}

func (c *Client) SendText(ctx context.Context, chatID, content string) (domain.Message, error) {
	var payload event.MessagePayload
	body := map[string]string{"chat_id": chatID, "content": content, "message_type": string(domain.KindText)}
	if err := c.do(ctx, http.MethodPost, "/api/messages", body, &payload); err != nil {
		return domain.Message{}, err
	}
	return payload.ToMessage()
}

// UploadFile sends a local file to /api/upload.
func (c *Client) UploadFile(ctx context.Context, path string) (Upload, error) {
	file, err := os.Open(path)
	if err != nil {
		return Upload{}, err
	}
	defer func() { _ = file.Close() }()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return Upload{}, err
	}
	if _, err = io.Copy(part, file); err != nil {
		return Upload{}, err
	}
	if err = form.Close(); err != nil {
		return Upload{}, err
	}

	var upload Upload
	return upload, c.send(ctx, http.MethodPost, "/api/upload", form.FormDataContentType(), &body, &upload)
}

// SendFile attaches an upload to a message, sent as an image or a file depending on its media type.
func (c *Client) SendFile(ctx context.Context, chatID, caption string, upload Upload) (domain.Message, error) {
	var payload event.MessagePayload
	body := map[string]string{
		"chat_id":      chatID,
		"content":      lo.Ternary(caption == "", upload.FileName, caption),
		"message_type": string(domain.KindFromMediaType(upload.FileType)),
		"file_data":    upload.FileData,
		"file_name":    upload.FileName,
		"file_type":    upload.FileType,
	}
	if err := c.do(ctx, http.MethodPost, "/api/messages", body, &payload); err != nil {
		return domain.Message{}, err
	}
	return payload.ToMessage()
}

func (c *Client) History(ctx context.Context, chatID string, skip, limit int) ([]domain.Message, error) {
	var payloads []event.MessagePayload
	path := "/api/messages/" + url.PathEscape(chatID) + "?skip=" + strconv.Itoa(skip) + "&limit=" + strconv.Itoa(limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &payloads); err != nil {
		return nil, err
	}
	messages := make([]domain.Message, 0, len(payloads))
	for _, p := range payloads {
		m, err := p.ToMessage()
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, nil
}

// Listen streams new_message events until ctx is canceled or the server closes the stream.
// handle runs on the reading goroutine.
func (c *Client) Listen(ctx context.Context, handle func(message domain.Message)) error {
	endpoint := strings.Replace(c.baseURL, "http", "ws", 1) + "/ws?token=" + url.QueryEscape(c.token)
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		if resp != nil {
			return &APIError{Status: resp.StatusCode, Detail: "websocket handshake refused"}
		}
		return fmt.Errorf("cannot open realtime stream: %w", err)
	}
	defer func() { _ = conn.Close() }()

	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		_ = conn.Close()
	})
	defer stop()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("realtime stream ended: %w", err)
		}
		evt, err := event.DecodeNewMessage(raw)
		if err != nil {
			continue
		}
		message, err := evt.Message.ToMessage()
		if err != nil {
			continue
		}
		handle(message)
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	return c.send(ctx, method, path, "application/json", reader, out)
}

func (c *Client) send(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		var detail struct {
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&detail)
		return &APIError{Status: resp.StatusCode, Detail: detail.Detail}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

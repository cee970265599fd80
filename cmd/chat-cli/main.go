// Package main provides a simple CLI client for the WebSocket chat endpoint.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/xiaot623/gogo/chatmem/internal/domain"
)

// Client represents a WebSocket client.
type Client struct {
	conn      *websocket.Conn
	sessionID string
	replies   chan domain.Frame
}

// NewClient creates a new client and connects to the server.
func NewClient(addr string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}

	return &Client{
		conn:    conn,
		replies: make(chan domain.Frame),
	}, nil
}

// Close closes the client connection.
func (c *Client) Close() error {
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}

// SendHello sends a hello message and waits for hello_ack.
func (c *Client) SendHello(sessionID string) error {
	msg := domain.Frame{
		Type:      domain.FrameHello,
		Ts:        time.Now().UnixMilli(),
		SessionID: sessionID,
	}
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("write hello: %w", err)
	}

	var ack domain.Frame
	if err := c.conn.ReadJSON(&ack); err != nil {
		return fmt.Errorf("read hello_ack: %w", err)
	}
	if ack.Type == domain.FrameError {
		return fmt.Errorf("hello failed: %s - %s", ack.Code, ack.Message)
	}
	if ack.Type != domain.FrameHelloAck {
		return fmt.Errorf("expected hello_ack, got: %s", ack.Type)
	}

	c.sessionID = ack.SessionID
	return nil
}

// SendChat sends a chat message and returns its request id.
func (c *Client) SendChat(content string) (string, error) {
	requestID := "req_" + uuid.New().String()
	msg := domain.Frame{
		Type:      domain.FrameChat,
		Ts:        time.Now().UnixMilli(),
		RequestID: requestID,
		SessionID: c.sessionID,
		Message:   content,
	}
	return requestID, c.conn.WriteJSON(msg)
}

// ReadMessages forwards server frames to the replies channel until the
// connection closes.
func (c *Client) ReadMessages() {
	defer close(c.replies)
	for {
		var frame domain.Frame
		if err := c.conn.ReadJSON(&frame); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				log.Printf("Read error: %v", err)
			}
			return
		}
		c.replies <- frame
	}
}

func printFrame(frame domain.Frame) {
	switch frame.Type {
	case domain.FrameAnswer:
		fmt.Printf("bot: %s\n", frame.Answer)
	case domain.FrameError:
		fmt.Printf("[%s] %s\n", frame.Code, frame.Message)
	default:
		fmt.Printf("[%s] unexpected frame\n", frame.Type)
	}
}

func main() {
	addr := flag.String("addr", "ws://localhost:4000/ws/chat", "WebSocket server address")
	session := flag.String("session", "", "Session ID to resume (assigned by the server when empty)")
	flag.Parse()

	log.SetFlags(log.Ltime)

	fmt.Printf("Connecting to %s...\n", *addr)

	client, err := NewClient(*addr)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer client.Close()

	if err := client.SendHello(*session); err != nil {
		log.Fatalf("Hello failed: %v", err)
	}

	fmt.Printf("Session established: %s\n", client.sessionID)
	fmt.Println("\nType a message and press Enter to send.")
	fmt.Println("Commands: /quit to exit")

	go client.ReadMessages()

	// Handle Ctrl+C
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		fmt.Print("> ")
		select {
		case <-interrupt:
			fmt.Println("\nInterrupted")
			return
		case line, ok := <-lines:
			if !ok {
				return
			}

			input := strings.TrimSpace(line)
			if input == "" {
				continue
			}
			if input == "/quit" {
				fmt.Println("Bye!")
				return
			}

			if _, err := client.SendChat(input); err != nil {
				log.Printf("Send error: %v", err)
				continue
			}

			select {
			case frame, ok := <-client.replies:
				if !ok {
					fmt.Println("Connection closed")
					return
				}
				printFrame(frame)
			case <-interrupt:
				fmt.Println("\nInterrupted")
				return
			}
		}
	}
}

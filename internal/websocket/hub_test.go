package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(hub *Hub, userID uint, buffer int) *Client {
	return &Client{
		Hub:           hub,
		UserID:        userID,
		Send:          make(chan []byte, buffer),
		Chats:         make(map[uint]bool),
		LastResetTime: time.Now(),
	}
}

func waitOnline(t *testing.T, hub *Hub, userID uint) {
	t.Helper()
	assert.Eventually(t, func() bool {
		return hub.IsUserOnline(userID)
	}, time.Second, 10*time.Millisecond)
}

func TestHub_DuplicateUnregisterKeepsHubAlive(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	first := newTestClient(hub, 1, 1)
	second := newTestClient(hub, 1, 1)
	hub.Register(first)
	hub.Register(second)
	waitOnline(t, hub, 1)

	// 브로드캐스트 정리와 ReadPump 종료가 겹치면 같은 세션이 두 번 해제된다
	hub.Unregister(first)
	hub.Unregister(first)

	// 해제된 세션의 채널은 한 번만 닫힌다
	assert.Eventually(t, func() bool {
		select {
		case _, open := <-first.Send:
			return !open
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)

	// 남은 세션은 유지되고 허브 고루틴도 계속 동작한다
	assert.True(t, hub.IsUserOnline(1))

	other := newTestClient(hub, 2, 1)
	hub.Register(other)
	waitOnline(t, hub, 2)
}

func TestHub_SlowSessionDropKeepsOtherSessionReceiving(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	slow := newTestClient(hub, 1, 1)
	fast := newTestClient(hub, 1, 16)
	sender := newTestClient(hub, 2, 16)
	hub.Register(slow)
	hub.Register(fast)
	hub.Register(sender)
	waitOnline(t, hub, 1)
	waitOnline(t, hub, 2)

	hub.JoinChat(1, 10)
	hub.JoinChat(2, 10)

	// 느린 세션의 버퍼를 채워 브로드캐스트가 강제 해제 경로를 타게 만든다
	slow.Send <- []byte("stale")

	require.NoError(t, hub.SendToChat(10, map[string]interface{}{"type": "ping"}, 2))

	assert.Eventually(t, func() bool {
		select {
		case _, open := <-slow.Send:
			return !open
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)

	// 연결 종료 시 ReadPump가 같은 세션을 한 번 더 해제한다
	hub.Unregister(slow)

	// 같은 사용자의 다른 세션은 계속 브로드캐스트를 받는다
	require.NoError(t, hub.SendToChat(10, map[string]interface{}{"type": "ping"}, 2))
	assert.Eventually(t, func() bool {
		select {
		case msg, open := <-fast.Send:
			return open && len(msg) > 0
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}

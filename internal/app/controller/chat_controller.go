package controller

import (
	goerrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/ohsj/linkple-backend/internal/app/model"
	"github.com/ohsj/linkple-backend/internal/app/service"
	"github.com/ohsj/linkple-backend/internal/errors"
	"github.com/ohsj/linkple-backend/internal/middleware"
	ws "github.com/ohsj/linkple-backend/internal/websocket"
)

type ChatController struct {
	chatService service.ChatService
	hub         *ws.Hub
	upgrader    websocket.Upgrader
}

// NewChatController CORS 설정과 같은 허용 출처 목록으로 웹소켓 업그레이드를 제한한다
func NewChatController(chatService service.ChatService, hub *ws.Hub, allowedOrigins []string) *ChatController {
	return &ChatController{
		chatService: chatService,
		hub:         hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(r.Header.Get("Origin"), allowedOrigins)
			},
		},
	}
}

func originAllowed(origin string, allowedOrigins []string) bool {
	for _, allowed := range allowedOrigins {
		if origin == allowed || allowed == "*" {
			return true
		}
	}
	return false
}

// FindChatRequest 인플루언서의 채팅 조회/생성 요청
type FindChatRequest struct {
	CampaignID uint `json:"campaign_id" binding:"required"`
}

// InviteRequest 광고주의 협업 제안 요청
type InviteRequest struct {
	InfluencerID uint   `json:"influencer_id" binding:"required"`
	CampaignID   uint   `json:"campaign_id" binding:"required"`
	Message      string `json:"message"`
}

// ProposalRequest 인플루언서의 제안 요청
type ProposalRequest struct {
	CampaignID uint   `json:"campaign_id" binding:"required"`
	Message    string `json:"message" binding:"required"`
}

// UpdateChatStatusRequest 제안 수락/거절 요청
type UpdateChatStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active rejected"`
}

// ChatMessageRequest 메시지 전송 요청
type ChatMessageRequest struct {
	Content     string `json:"content" binding:"required"`
	MessageType string `json:"message_type,omitempty"`
	Metadata    string `json:"metadata,omitempty"`
}

// FindChat 캠페인에 대한 채팅 조회, 없으면 생성 (인플루언서)
// POST /api/v1/chats/find
func (ctrl *ChatController) FindChat(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, ok := middleware.GetUserID(c)
	if !ok {
		errors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	var req FindChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "입력값이 올바르지 않습니다")
		return
	}

	chat, created, err := ctrl.chatService.FindOrCreateChat(userID, req.CampaignID)
	if err != nil {
		switch {
		case goerrors.Is(err, service.ErrCampaignNotFound):
			errors.NotFound(c, errors.CampaignNotFound, "캠페인을 찾을 수 없습니다")
		case goerrors.Is(err, service.ErrSelfChat):
			errors.BadRequest(c, errors.ChatSelfChatForbidden, "본인이 등록한 캠페인에는 채팅을 만들 수 없습니다")
		default:
			log.Error("Failed to find or create chat", err, map[string]interface{}{
				"campaign_id": req.CampaignID,
				"user_id":     userID,
			})
			errors.ParseAndRespond(c, http.StatusInternalServerError, err, "find chat")
		}
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		log.Info("Chat created", map[string]interface{}{
			"chat_id":     chat.ID,
			"campaign_id": req.CampaignID,
			"user_id":     userID,
		})
	}

	c.JSON(status, gin.H{
		"chat":    chat,
		"created": created,
	})
}

// Invite 광고주가 인플루언서에게 협업 제안 (즉시 활성 채팅)
// POST /api/v1/chats/invite
func (ctrl *ChatController) Invite(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, ok := middleware.GetUserID(c)
	if !ok {
		errors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "입력값이 올바르지 않습니다")
		return
	}

	chat, err := ctrl.chatService.Invite(userID, req.InfluencerID, req.CampaignID, req.Message)
	if err != nil {
		var existsErr *service.ChatExistsError
		switch {
		case goerrors.As(err, &existsErr):
			// 중복 제안이면 기존 채팅 ID를 함께 내려준다
			errors.ConflictWithChatID(c, "이미 해당 캠페인으로 채팅이 존재합니다", existsErr.ChatID)
		case goerrors.Is(err, service.ErrCampaignNotFound):
			errors.NotFound(c, errors.CampaignNotFound, "캠페인을 찾을 수 없습니다")
		case goerrors.Is(err, service.ErrNotCampaignOwner):
			errors.Forbidden(c, "본인이 등록한 캠페인으로만 제안할 수 있습니다")
		case goerrors.Is(err, service.ErrSelfChat):
			errors.BadRequest(c, errors.ChatSelfChatForbidden, "자기 자신에게는 제안할 수 없습니다")
		default:
			log.Error("Failed to create invite chat", err, map[string]interface{}{
				"campaign_id":   req.CampaignID,
				"influencer_id": req.InfluencerID,
				"user_id":       userID,
			})
			errors.ParseAndRespond(c, http.StatusInternalServerError, err, "invite chat")
		}
		return
	}

	log.Info("Collaboration invite sent", map[string]interface{}{
		"chat_id":       chat.ID,
		"campaign_id":   req.CampaignID,
		"influencer_id": req.InfluencerID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Invite sent successfully",
		"chat":    chat,
	})
}

// Propose 인플루언서가 광고주에게 제안 (수락 대기 채팅)
// POST /api/v1/chats/proposal
func (ctrl *ChatController) Propose(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, ok := middleware.GetUserID(c)
	if !ok {
		errors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	var req ProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "입력값이 올바르지 않습니다")
		return
	}

	chat, err := ctrl.chatService.Propose(userID, req.CampaignID, req.Message)
	if err != nil {
		var existsErr *service.ChatExistsError
		switch {
		case goerrors.As(err, &existsErr):
			errors.ConflictWithChatID(c, "이미 해당 캠페인으로 채팅이 존재합니다", existsErr.ChatID)
		case goerrors.Is(err, service.ErrCampaignNotFound):
			errors.NotFound(c, errors.CampaignNotFound, "캠페인을 찾을 수 없습니다")
		case goerrors.Is(err, service.ErrSelfChat):
			errors.BadRequest(c, errors.ChatSelfChatForbidden, "본인이 등록한 캠페인에는 제안할 수 없습니다")
		default:
			log.Error("Failed to create proposal chat", err, map[string]interface{}{
				"campaign_id": req.CampaignID,
				"user_id":     userID,
			})
			errors.ParseAndRespond(c, http.StatusInternalServerError, err, "propose chat")
		}
		return
	}

	log.Info("Proposal sent", map[string]interface{}{
		"chat_id":     chat.ID,
		"campaign_id": req.CampaignID,
		"user_id":     userID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Proposal sent successfully",
		"chat":    chat,
	})
}

// UpdateStatus 광고주가 인플루언서 제안을 수락/거절
// PATCH /api/v1/chats/:id/status
func (ctrl *ChatController) UpdateStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, ok := middleware.GetUserID(c)
	if !ok {
		errors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	chatID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "잘못된 채팅 ID입니다")
		return
	}

	var req UpdateChatStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidStatus, "상태는 active 또는 rejected만 가능합니다")
		return
	}

	chat, err := ctrl.chatService.UpdateChatStatus(uint(chatID), userID, model.ChatStatus(req.Status))
	if err != nil {
		switch {
		case goerrors.Is(err, service.ErrChatNotFound):
			errors.NotFound(c, errors.ChatNotFound, "채팅을 찾을 수 없습니다")
		case goerrors.Is(err, service.ErrInvalidChatStatus):
			errors.BadRequest(c, errors.ValidationInvalidStatus, "상태는 active 또는 rejected만 가능합니다")
		case goerrors.Is(err, service.ErrChatStatusLocked):
			errors.Conflict(c, errors.ChatStatusLocked, "광고주가 먼저 제안한 채팅은 상태를 변경할 수 없습니다")
		case goerrors.Is(err, service.ErrNotParticipant):
			errors.Forbidden(c, "해당 제안을 처리할 권한이 없습니다")
		case goerrors.Is(err, service.ErrChatNotPending):
			errors.Conflict(c, errors.ChatNotPending, "이미 처리된 제안입니다")
		default:
			log.Error("Failed to update chat status", err, map[string]interface{}{
				"chat_id": chatID,
				"user_id": userID,
				"status":  req.Status,
			})
			errors.ParseAndRespond(c, http.StatusInternalServerError, err, "update chat status")
		}
		return
	}

	log.Info("Chat status updated", map[string]interface{}{
		"chat_id": chat.ID,
		"status":  chat.Status,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Chat status updated successfully",
		"chat":    chat,
	})
}

// GetChats 내 채팅 목록 (안 읽은 메시지 수 포함)
// GET /api/v1/chats
func (ctrl *ChatController) GetChats(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, ok := middleware.GetUserID(c)
	if !ok {
		errors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	chats, total, err := ctrl.chatService.GetUserChats(userID, page, pageSize)
	if err != nil {
		log.Error("Failed to get chats", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.ParseAndRespond(c, http.StatusInternalServerError, err, "get chats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"chats":     chats,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetChat 채팅 단건 조회 (참여자만)
// GET /api/v1/chats/:id
func (ctrl *ChatController) GetChat(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, ok := middleware.GetUserID(c)
	if !ok {
		errors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	chatID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "잘못된 채팅 ID입니다")
		return
	}

	chat, err := ctrl.chatService.GetChat(uint(chatID), userID)
	if err != nil {
		switch {
		case goerrors.Is(err, service.ErrChatNotFound):
			errors.NotFound(c, errors.ChatNotFound, "채팅을 찾을 수 없습니다")
		case goerrors.Is(err, service.ErrNotParticipant):
			errors.Forbidden(c, "해당 채팅에 접근할 권한이 없습니다")
		default:
			log.Error("Failed to get chat", err, map[string]interface{}{
				"chat_id": chatID,
				"user_id": userID,
			})
			errors.ParseAndRespond(c, http.StatusInternalServerError, err, "get chat")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"chat": chat,
	})
}

// SendMessage 메시지 전송
// POST /api/v1/chats/:id/messages
func (ctrl *ChatController) SendMessage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, ok := middleware.GetUserID(c)
	if !ok {
		errors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	chatID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "잘못된 채팅 ID입니다")
		return
	}

	var req ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "입력값이 올바르지 않습니다")
		return
	}

	messageType := model.MessageTypeText
	if req.MessageType != "" {
		messageType = model.MessageType(req.MessageType)
	}

	message, err := ctrl.chatService.SendMessage(uint(chatID), userID, req.Content, messageType, req.Metadata)
	if err != nil {
		switch {
		case goerrors.Is(err, service.ErrChatNotFound):
			errors.NotFound(c, errors.ChatNotFound, "채팅을 찾을 수 없습니다")
		case goerrors.Is(err, service.ErrNotParticipant):
			errors.Forbidden(c, "해당 채팅에 접근할 권한이 없습니다")
		default:
			log.Error("Failed to send message", err, map[string]interface{}{
				"chat_id": chatID,
				"user_id": userID,
			})
			errors.ParseAndRespond(c, http.StatusInternalServerError, err, "send message")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": message,
	})
}

// GetMessages 메시지 목록 조회 (삭제된 메시지는 마스킹)
// GET /api/v1/chats/:id/messages
func (ctrl *ChatController) GetMessages(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, ok := middleware.GetUserID(c)
	if !ok {
		errors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	chatID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "잘못된 채팅 ID입니다")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	messages, total, err := ctrl.chatService.GetChatMessages(uint(chatID), userID, page, pageSize)
	if err != nil {
		switch {
		case goerrors.Is(err, service.ErrChatNotFound):
			errors.NotFound(c, errors.ChatNotFound, "채팅을 찾을 수 없습니다")
		case goerrors.Is(err, service.ErrNotParticipant):
			errors.Forbidden(c, "해당 채팅에 접근할 권한이 없습니다")
		default:
			log.Error("Failed to get messages", err, map[string]interface{}{
				"chat_id": chatID,
				"user_id": userID,
			})
			errors.ParseAndRespond(c, http.StatusInternalServerError, err, "get messages")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages":  messages,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// MarkAsRead 채팅 읽음 처리
// POST /api/v1/chats/:id/read
func (ctrl *ChatController) MarkAsRead(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, ok := middleware.GetUserID(c)
	if !ok {
		errors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	chatID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "잘못된 채팅 ID입니다")
		return
	}

	if err := ctrl.chatService.MarkChatAsRead(uint(chatID), userID); err != nil {
		switch {
		case goerrors.Is(err, service.ErrChatNotFound):
			errors.NotFound(c, errors.ChatNotFound, "채팅을 찾을 수 없습니다")
		case goerrors.Is(err, service.ErrNotParticipant):
			errors.Forbidden(c, "해당 채팅에 접근할 권한이 없습니다")
		default:
			log.Error("Failed to mark chat as read", err, map[string]interface{}{
				"chat_id": chatID,
				"user_id": userID,
			})
			errors.ParseAndRespond(c, http.StatusInternalServerError, err, "mark chat as read")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// DeleteMessage 본인 메시지 소프트 삭제
// DELETE /api/v1/chats/messages/:messageId
func (ctrl *ChatController) DeleteMessage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, ok := middleware.GetUserID(c)
	if !ok {
		errors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	messageID, err := strconv.ParseUint(c.Param("messageId"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "잘못된 메시지 ID입니다")
		return
	}

	if err := ctrl.chatService.DeleteMessage(uint(messageID), userID); err != nil {
		switch {
		case goerrors.Is(err, service.ErrMessageNotFound):
			errors.NotFound(c, errors.ChatMessageNotFound, "메시지를 찾을 수 없습니다")
		case goerrors.Is(err, service.ErrNotMessageSender):
			errors.Forbidden(c, "본인이 보낸 메시지만 삭제할 수 있습니다")
		case goerrors.Is(err, service.ErrMessageDeleted):
			errors.Conflict(c, errors.ChatMessageDeleted, "이미 삭제된 메시지입니다")
		default:
			log.Error("Failed to delete message", err, map[string]interface{}{
				"message_id": messageID,
				"user_id":    userID,
			})
			errors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete message")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// GetTypingUsers 현재 입력 중인 상대 목록
// GET /api/v1/chats/:id/typing
func (ctrl *ChatController) GetTypingUsers(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, ok := middleware.GetUserID(c)
	if !ok {
		errors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	chatID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "잘못된 채팅 ID입니다")
		return
	}

	typingUsers, err := ctrl.chatService.GetTypingUsers(c.Request.Context(), uint(chatID), userID)
	if err != nil {
		log.Error("Failed to get typing users", err, map[string]interface{}{
			"chat_id": chatID,
		})
		errors.InternalError(c, "입력 상태 조회에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"typing_users": typingUsers,
	})
}

// WebSocketHandler WebSocket 연결 업그레이드
// GET /api/v1/ws
func (ctrl *ChatController) WebSocketHandler(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	// 미들웨어에서 이미 인증 완료
	userID, ok := middleware.GetUserID(c)
	if !ok {
		errors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := &ws.Client{
		Hub:           ctrl.hub,
		Conn:          &ws.Conn{Conn: conn},
		UserID:        userID,
		Send:          make(chan []byte, 2048), // 네트워크가 느린 클라이언트 대응
		Chats:         make(map[uint]bool),
		LastResetTime: time.Now(),
	}

	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("WebSocket connection established", map[string]interface{}{
		"user_id": userID,
	})
}

// JoinChat 채팅 실시간 구독 시작
// POST /api/v1/chats/:id/join
func (ctrl *ChatController) JoinChat(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, ok := middleware.GetUserID(c)
	if !ok {
		errors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	chatID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "잘못된 채팅 ID입니다")
		return
	}

	if err := ctrl.chatService.JoinChat(userID, uint(chatID)); err != nil {
		switch {
		case goerrors.Is(err, service.ErrChatNotFound):
			errors.NotFound(c, errors.ChatNotFound, "채팅을 찾을 수 없습니다")
		case goerrors.Is(err, service.ErrNotParticipant):
			errors.Forbidden(c, "해당 채팅에 접근할 권한이 없습니다")
		default:
			log.Error("Failed to join chat", err, map[string]interface{}{
				"chat_id": chatID,
				"user_id": userID,
			})
			errors.InternalError(c, "채팅 참여에 실패했습니다")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// LeaveChat 채팅 실시간 구독 종료
// POST /api/v1/chats/:id/leave
func (ctrl *ChatController) LeaveChat(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		errors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	chatID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "잘못된 채팅 ID입니다")
		return
	}

	ctrl.chatService.LeaveChat(userID, uint(chatID))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

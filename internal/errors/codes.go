package errors

// 에러 코드 상수 정의
// 형식: CATEGORY_SPECIFIC_DETAIL
// 프론트엔드에서 이 코드를 기반으로 메시지를 매핑함

const (
	// ==================== 인증 (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // 로그인 필요
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // 잘못된 이메일/비밀번호
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // 토큰 만료
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // 잘못된 토큰
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // 토큰 폐기됨 (로그아웃)
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // 이메일 중복
	AuthNicknameExists     = "AUTH_NICKNAME_EXISTS"     // 닉네임 중복
	AuthRoleAlreadySet     = "AUTH_ROLE_ALREADY_SET"    // 역할 이미 선택됨
	AuthNotApproved        = "AUTH_NOT_APPROVED"        // 가입 승인 대기/거절 상태

	// ==================== 인가/권한 (AUTHZ_) ====================
	AuthzForbidden      = "AUTHZ_FORBIDDEN"       // 접근 권한 없음
	AuthzRoleNotFound   = "AUTHZ_ROLE_NOT_FOUND"  // 권한 정보 없음
	AuthzAdminOnly      = "AUTHZ_ADMIN_ONLY"      // 관리자만 가능
	AuthzOwnerOnly      = "AUTHZ_OWNER_ONLY"      // 소유자만 가능
	AuthzInfluencerOnly = "AUTHZ_INFLUENCER_ONLY" // 인플루언서만 가능
	AuthzAdvertiserOnly = "AUTHZ_ADVERTISER_ONLY" // 광고주만 가능

	// ==================== 검증 (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // 잘못된 입력
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // 잘못된 ID
	ValidationInvalidStatus = "VALIDATION_INVALID_STATUS" // 허용되지 않는 상태 값
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"  // 범위 초과
	ValidationRequired      = "VALIDATION_REQUIRED"       // 필수 항목

	// ==================== 리소스 (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // 리소스 없음
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // 이미 존재
	ResourceConflict      = "RESOURCE_CONFLICT"       // 충돌

	// ==================== 캠페인 (CAMPAIGN_) ====================
	CampaignNotFound      = "CAMPAIGN_NOT_FOUND"      // 캠페인 없음
	CampaignNotRecruiting = "CAMPAIGN_NOT_RECRUITING" // 모집 중이 아님
	CampaignDraftNotFound = "CAMPAIGN_DRAFT_NOT_FOUND" // 임시 저장본 없음

	// ==================== 신청 (APPLICATION_) ====================
	ApplicationNotFound         = "APPLICATION_NOT_FOUND"          // 신청 없음
	ApplicationAlreadyExists    = "APPLICATION_ALREADY_EXISTS"     // 이미 신청함
	ApplicationAlreadyCancelled = "APPLICATION_ALREADY_CANCELLED"  // 이미 취소됨
	ApplicationSelfApply        = "APPLICATION_SELF_APPLY"         // 본인 캠페인에는 신청 불가
	ApplicationInvalidStatus    = "APPLICATION_INVALID_STATUS"     // 허용되지 않는 신청 상태

	// ==================== 채팅 (CHAT_) ====================
	ChatNotFound          = "CHAT_NOT_FOUND"           // 채팅 없음
	ChatAlreadyExists     = "CHAT_ALREADY_EXISTS"      // 이미 채팅 존재 (기존 ID 반환)
	ChatMessageNotFound   = "CHAT_MESSAGE_NOT_FOUND"   // 메시지 없음
	ChatNotParticipant    = "CHAT_NOT_PARTICIPANT"     // 참여자 아님
	ChatStatusLocked      = "CHAT_STATUS_LOCKED"       // 상태 변경 불가 (광고주 개설 채팅)
	ChatNotPending        = "CHAT_NOT_PENDING"         // 대기 상태가 아님
	ChatMessageDeleted    = "CHAT_MESSAGE_DELETED"     // 메시지 이미 삭제됨
	ChatSelfChatForbidden = "CHAT_SELF_CHAT_FORBIDDEN" // 자기 자신과 채팅 불가

	// ==================== 리뷰 (REVIEW_) ====================
	ReviewNotFound      = "REVIEW_NOT_FOUND"       // 리뷰 없음
	ReviewInvalidRating = "REVIEW_INVALID_RATING"  // 잘못된 평점
	ReviewAlreadyExists = "REVIEW_ALREADY_EXISTS"  // 이미 리뷰 작성함

	// ==================== 프로필 (PROFILE_) ====================
	ProfileNotFound = "PROFILE_NOT_FOUND" // 프로필 없음

	// ==================== 찜 (FAVORITE_) ====================
	FavoriteNotFound      = "FAVORITE_NOT_FOUND"       // 찜 없음
	FavoriteAlreadyExists = "FAVORITE_ALREADY_EXISTS"  // 이미 찜함

	// ==================== 알림 (NOTIFICATION_) ====================
	NotificationNotFound = "NOTIFICATION_NOT_FOUND" // 알림 없음

	// ==================== 업로드 (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE" // 잘못된 파일 형식
	UploadFailed          = "UPLOAD_FAILED"            // 업로드 실패

	// ==================== 내부 오류 (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // 서버 오류
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB 오류
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"   // 외부 API 오류
)

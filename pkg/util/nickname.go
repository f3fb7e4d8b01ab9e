package util

import (
	"fmt"
	"math/rand"
)

var nicknameAdjectives = []string{
	"반짝이는", "유쾌한", "차분한", "당찬", "느긋한", "씩씩한", "다정한", "엉뚱한",
}

var nicknameNouns = []string{
	"크리에이터", "리뷰어", "탐험가", "미식가", "여행자", "기획자", "이야기꾼", "포토그래퍼",
}

// GenerateNickname 가입 시 임의 닉네임 생성 (예: "유쾌한 리뷰어 3921")
func GenerateNickname() string {
	adj := nicknameAdjectives[rand.Intn(len(nicknameAdjectives))]
	noun := nicknameNouns[rand.Intn(len(nicknameNouns))]
	return fmt.Sprintf("%s %s %04d", adj, noun, rand.Intn(10000))
}

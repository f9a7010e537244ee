// Package seed holds the sample question bank shipped with the service.
package seed

import "trivia-quiz-service/internal/domain"

const (
	GeneralID int64 = iota + 1
	MoviesID
	ScienceID
	SportsID
	OverseasSoccerID
	DomesticSoccerID
)

// Categories returns the sample categories. Soccer categories sit one level
// below sports.
func Categories() []domain.Category {
	sports := SportsID
	return []domain.Category{
		{ID: GeneralID, Name: "일반 상식", Description: "다양한 분야의 일반 상식 퀴즈", Icon: "🌍", Color: "#00D9FF"},
		{ID: MoviesID, Name: "영화", Description: "영화와 관련된 재미있는 퀴즈", Icon: "🎬", Color: "#FFD700"},
		{ID: ScienceID, Name: "과학", Description: "과학 지식을 테스트하는 퀴즈", Icon: "🔬", Color: "#FF6B9D"},
		{ID: SportsID, Name: "스포츠", Description: "스포츠에 관한 흥미로운 퀴즈", Icon: "⚽", Color: "#10b981"},
		{ID: OverseasSoccerID, Name: "해외 축구", Description: "세계 축구에 관한 퀴즈", Icon: "🌍", Color: "#3b82f6", ParentID: &sports},
		{ID: DomesticSoccerID, Name: "국내 축구", Description: "한국 축구에 관한 퀴즈", Icon: "🇰🇷", Color: "#ef4444", ParentID: &sports},
	}
}

// Questions returns the sample questions with sequential IDs.
func Questions() []domain.Question {
	qs := []domain.Question{
		q(GeneralID, "세계에서 가장 높은 산은 무엇인가요?", "에베레스트", "K2", "킬리만자로", "후지산", "에베레스트는 해발 8,849m로 세계에서 가장 높은 산입니다.", domain.DifficultyEasy),
		q(GeneralID, "대한민국의 수도는 어디인가요?", "서울", "부산", "인천", "대구", "서울은 대한민국의 수도이자 최대 도시입니다.", domain.DifficultyEasy),
		q(GeneralID, "태양계에서 가장 큰 행성은?", "목성", "토성", "지구", "화성", "목성은 태양계에서 가장 큰 행성으로 지구의 약 11배 크기입니다.", domain.DifficultyMedium),
		q(GeneralID, "세계에서 가장 긴 강은?", "나일강", "아마존강", "양쯔강", "미시시피강", "나일강은 약 6,650km로 세계에서 가장 긴 강입니다.", domain.DifficultyMedium),
		q(GeneralID, "인간의 뼈는 총 몇 개인가요?", "206개", "195개", "215개", "180개", "성인의 인체에는 총 206개의 뼈가 있습니다.", domain.DifficultyHard),

		q(MoviesID, "영화 '타이타닉'의 감독은 누구인가요?", "제임스 카메론", "스티븐 스필버그", "크리스토퍼 놀란", "마틴 스콜세지", "제임스 카메론은 타이타닉과 아바타를 감독한 유명 영화감독입니다.", domain.DifficultyEasy),
		q(MoviesID, "'반지의 제왕' 시리즈는 총 몇 편인가요?", "3편", "2편", "4편", "5편", "반지의 제왕은 반지 원정대, 두 개의 탑, 왕의 귀환 총 3편으로 구성되어 있습니다.", domain.DifficultyEasy),
		q(MoviesID, "마블 시네마틱 유니버스(MCU)의 첫 번째 영화는?", "아이언맨", "헐크", "토르", "캡틴 아메리카", "2008년 개봉한 아이언맨이 MCU의 시작을 알린 첫 번째 영화입니다.", domain.DifficultyMedium),

		q(ScienceID, "물의 화학식은 무엇인가요?", "H2O", "CO2", "O2", "H2SO4", "물은 수소 2개와 산소 1개로 이루어진 H2O입니다.", domain.DifficultyEasy),
		q(ScienceID, "DNA의 이중나선 구조를 발견한 과학자는?", "왓슨과 크릭", "아인슈타인", "뉴턴", "다윈", "제임스 왓슨과 프랜시스 크릭이 1953년 DNA의 이중나선 구조를 발견했습니다.", domain.DifficultyMedium),
		q(ScienceID, "양자역학의 불확정성 원리를 제안한 과학자는?", "하이젠베르크", "슈뢰딩거", "보어", "파인만", "베르너 하이젠베르크가 1927년 불확정성 원리를 제안했습니다.", domain.DifficultyHard),

		q(SportsID, "올림픽은 몇 년마다 개최되나요?", "4년", "2년", "3년", "5년", "하계 올림픽과 동계 올림픽 모두 4년마다 개최됩니다.", domain.DifficultyEasy),
		q(SportsID, "축구에서 한 팀은 몇 명의 선수로 구성되나요?", "11명", "9명", "10명", "12명", "축구는 골키퍼를 포함하여 한 팀당 11명의 선수가 경기를 진행합니다.", domain.DifficultyEasy),
		q(SportsID, "마라톤의 공식 거리는?", "42.195km", "40km", "45km", "50km", "마라톤의 공식 거리는 42.195km(26마일 385야드)입니다.", domain.DifficultyMedium),

		q(OverseasSoccerID, "2022 FIFA 월드컵 우승국은?", "아르헨티나", "브라질", "프랑스", "독일", "아르헨티나가 카타르에서 열린 2022 FIFA 월드컵에서 우승했습니다.", domain.DifficultyEasy),
		q(OverseasSoccerID, "UEFA 챔피언스리그 최다 우승 팀은?", "레알 마드리드", "바르셀로나", "AC 밀란", "리버풀", "레알 마드리드는 UEFA 챔피언스리그를 14회 우승한 최다 우승 팀입니다.", domain.DifficultyMedium),

		q(DomesticSoccerID, "2002 한일 월드컵에서 한국의 최종 순위는?", "4위", "3위", "8위", "16위", "한국은 2002 월드컵에서 역사적인 4강 진출을 이루었습니다.", domain.DifficultyEasy),
		q(DomesticSoccerID, "K리그는 몇 년에 창설되었나?", "1983년", "1980년", "1990년", "1995년", "K리그는 1983년에 창설되어 아시아에서 가장 오래된 프로 축구 리그 중 하나입니다.", domain.DifficultyHard),
	}
	for i := range qs {
		qs[i].ID = int64(i + 1)
	}
	return qs
}

func q(categoryID int64, prompt, correct, w1, w2, w3, explanation string, difficulty domain.Difficulty) domain.Question {
	return domain.Question{
		CategoryID:    categoryID,
		Prompt:        prompt,
		CorrectAnswer: correct,
		Distractors:   []string{w1, w2, w3},
		Difficulty:    difficulty,
		Explanation:   explanation,
	}
}

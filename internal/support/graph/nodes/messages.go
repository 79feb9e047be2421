package nodes

import (
	"fmt"

	"github.com/supportflow-core-poc/server/internal/support/model"
)

// Deterministic outward messages. These are the fallbacks (and in some
// handlers the primary text) used when the generator model is unavailable
// or a handler deliberately avoids an inference call.

const smallTalkFallbackText = "안녕하세요! 👋\n\n" +
	"고객지원 챗봇입니다. 무엇을 도와드릴까요?\n\n" +
	"예를 들어 다음과 같은 문제를 도와드릴 수 있습니다:\n" +
	"- 로그인/비밀번호 문제\n" +
	"- 메신저 기능 오류\n" +
	"- 파일 업로드/다운로드 문제\n" +
	"- 계정 관련 문의\n\n" +
	"어떤 문제가 있으신가요?"

const resolvedText = "🎉 문제가 해결되어 다행입니다!\n\n추가로 도움이 필요하시면 언제든 문의해주세요. 😊"

const cancelledText = "알겠습니다. 문의 등록을 취소했습니다.\n\n다른 도움이 필요하시면 언제든 말씀해주세요. 😊"

const reconfirmText = "죄송합니다. 명확하게 이해하지 못했습니다.\n\n" +
	"문의를 등록하시려면 '네' 또는 '등록해주세요'라고 답변해주세요.\n" +
	"등록을 원하지 않으시면 '아니요' 또는 '취소'라고 답변해주세요."

const stillWaitingText = "현재 단계를 확인해보시고 결과를 알려주세요.\n(예: '해결됐어요', '안돼요', '다음 단계')"

const noInformationAction = "관련 정보 없음"

func clarifyText(lastUserText string) string {
	return fmt.Sprintf(
		"네, '%s'라고 하셨네요.\n\n"+
			"문제를 정확히 파악하기 위해 몇 가지 여쭤볼게요:\n\n"+
			"**어떤 증상이 나타나나요?**\n"+
			"예를 들어:\n"+
			"- 특정 기능이 작동하지 않나요?\n"+
			"- 오류 메시지가 표시되나요?\n"+
			"- 느리거나 멈추는 현상이 있나요?\n"+
			"- 그 외 다른 증상이 있나요?\n\n"+
			"최대한 구체적으로 알려주시면 더 정확한 해결 방법을 안내해드릴 수 있습니다. 😊",
		lastUserText)
}

func stepText(step *model.SolutionStep, totalSteps int) string {
	return fmt.Sprintf(
		"**[단계 %d/%d]** %s\n\n"+
			"📝 %s\n\n"+
			"✅ **기대 결과**: %s\n\n"+
			"---\n"+
			"이 단계를 확인하셨나요? 결과를 알려주세요.\n"+
			"(예: '해결됐어요', '안돼요', '다음 단계', '등록해주세요')",
		step.Index, totalSteps, step.Action, step.Description, step.ExpectedResult)
}

func confirmTicketText(summary string, attemptedSteps int) string {
	text := "😔 불편을 드려 죄송합니다.\n\n"
	if attemptedSteps > 0 {
		text += fmt.Sprintf("지금까지 %d단계를 시도하셨지만 문제가 해결되지 않은 것 같습니다.\n", attemptedSteps)
	}
	text += "담당 부서의 확인이 필요한 상황입니다.\n\n" +
		"📋 **등록될 문의 내용:**\n" +
		fmt.Sprintf("- 문제: %s\n", summary)
	if attemptedSteps > 0 {
		text += fmt.Sprintf("- 시도한 해결 방법: %d개 단계\n", attemptedSteps)
	}
	text += "\n💬 **이 내용으로 문의를 등록하시겠습니까?**\n\n" +
		"답변해주세요:\n" +
		"- '네' 또는 '등록해주세요' → 문의 등록\n" +
		"- '아니요' 또는 '취소' → 문의 등록 취소"
	return text
}

func ticketCreatedText(ticketID, title, summary string) string {
	return fmt.Sprintf(
		"📋 **문의가 등록되었습니다**\n\n"+
			"**문의 번호**: `%s`\n"+
			"**제목**: %s\n"+
			"**요약**: %s\n\n"+
			"담당자가 확인 후 답변을 드리겠습니다.\n"+
			"답변이 등록되면 알림을 보내드리겠습니다. 📬\n\n"+
			"감사합니다! 😊",
		ticketID, title, summary)
}

package console

import (
	"fmt"
	"strings"

	"mock-interview-cli/internal/api"
	"mock-interview-cli/internal/session"
	"mock-interview-cli/internal/timer"
)

// renderCurrent показывает оценку предыдущего ответа и текущий вопрос
func (h *Handler) renderCurrent() {
	ctrl := h.controller()

	if feedback := ctrl.Feedback(); feedback != nil {
		renderFeedback(feedback)
	}

	question := ctrl.Question()
	if question == nil || ctrl.Complete() {
		return
	}

	minutes := int(question.Type.Duration().Minutes())
	fmt.Printf("\n📋 *%s* (%s, %d мин)\n", ctrl.RoundTitle(), question.Type, minutes)
	fmt.Printf("\n❓ %s\n", question.Text)

	switch {
	case question.Type == session.RoundMCQ:
		for i, option := range question.Options {
			fmt.Printf("  %c) %s\n", 'A'+i, option)
		}
		fmt.Println("\nВведите букву или номер варианта.")
	case question.Type.IsCode():
		if question.InitialCode != "" {
			fmt.Println("\nСтартовый код:")
			fmt.Println("```")
			fmt.Println(question.InitialCode)
			fmt.Println("```")
		}
		fmt.Println("\nВведите решение, завершите строкой с одной точкой (.)")
	default:
		fmt.Println("\nНапишите ответ одной строкой или надиктуйте через /listen.")
	}
}

// renderFeedback показывает оценку предыдущего ответа
func renderFeedback(feedback *session.Feedback) {
	fmt.Printf("\n📊 *Оценка предыдущего ответа: %.1f/10*\n", feedback.Score)
	if len(feedback.Strengths) > 0 {
		fmt.Println("💪 Сильные стороны:")
		for _, s := range feedback.Strengths {
			fmt.Printf("  • %s\n", s)
		}
	}
	if len(feedback.Weaknesses) > 0 {
		fmt.Println("⚠️ Слабые места:")
		for _, w := range feedback.Weaknesses {
			fmt.Printf("  • %s\n", w)
		}
	}
	if feedback.Text != "" {
		fmt.Printf("💬 %s\n", feedback.Text)
	}
	fmt.Println("(/dismiss — скрыть оценку)")
}

// renderPlan показывает предварительный план интервью
func renderPlan(plan *api.PlanResponse) {
	source := "шаблон"
	if plan.AIGenerated {
		source = "сгенерирован AI 🧠"
	}
	fmt.Printf("\n📋 *План интервью* (%s)\n", source)
	for i, round := range plan.Rounds {
		fmt.Printf("%d. %s — %s, вопросов: %d, ~%d мин\n",
			i+1, round.Title, round.Type, round.QuestionCount, round.EstimatedMinutes)
	}
	fmt.Printf("Всего: %d вопросов, ~%d минут\n", plan.TotalQuestions, plan.TotalEstimatedMinutes)
}

// renderATSReport показывает результат ATS-проверки резюме
func renderATSReport(report *api.ATSReport) {
	fmt.Printf("\n📄 *ATS-оценка резюме: %.0f/100*\n", report.Score)
	fmt.Printf("🔑 Совпадение ключевых слов: %.0f%%\n", report.KeywordMatchPercent)
	if len(report.Strengths) > 0 {
		fmt.Println("💪 Сильные стороны:")
		for _, s := range report.Strengths {
			fmt.Printf("  • %s\n", s)
		}
	}
	if len(report.Weaknesses) > 0 {
		fmt.Println("⚠️ Слабые места:")
		for _, w := range report.Weaknesses {
			fmt.Printf("  • %s\n", w)
		}
	}
	if len(report.Recommendations) > 0 {
		fmt.Println("💡 Рекомендации:")
		for _, r := range report.Recommendations {
			fmt.Printf("  • %s\n", r)
		}
	}
}

// renderBehaviorReport показывает анализ поведения по кадру
func renderBehaviorReport(report *api.BehaviorReport) {
	presence := "не обнаружен ⚠️"
	if report.Presence {
		presence = "в кадре ✅"
	}
	posture := "требует внимания ⚠️"
	if report.Posture.IsGood {
		posture = "хорошая ✅"
	}

	fmt.Println("\n🎥 *Анализ поведения*")
	fmt.Printf("• Кандидат: %s\n", presence)
	fmt.Printf("• Контакт глазами: %s\n", report.EyeContact)
	fmt.Printf("• Осанка: %s (наклон %.1f°)\n", posture, report.Posture.SlouchAngle)
	fmt.Printf("• Поворот головы: yaw %.1f°, pitch %.1f°\n", report.HeadPose.Yaw, report.HeadPose.Pitch)
	fmt.Printf("• Уверенность: %.0f%%\n", report.ConfidenceScore)
	for _, tip := range report.Feedback {
		fmt.Printf("  💡 %s\n", tip)
	}
	if report.Overall != "" {
		fmt.Printf("Итог: %s\n", report.Overall)
	}
}

// renderSummary показывает итоговый отчет по интервью
func renderSummary(summary *api.SummaryResponse) {
	fmt.Println("\n🏁 *Итоги интервью*")
	fmt.Printf("🆔 Сессия: `%s`\n", summary.SessionID)
	fmt.Printf("📊 Общий балл: %.1f/10\n", summary.OverallScore)
	fmt.Printf("❓ Вопросов: %d, раундов: %d, время: %.0f мин\n",
		summary.TotalQuestions, summary.TotalRounds, summary.TimeTakenMinutes)

	if len(summary.RoundSummaries) > 0 {
		fmt.Println("\n📋 По раундам:")
		for _, round := range summary.RoundSummaries {
			fmt.Printf("• %s — %.1f/10 (%d вопросов, типы: %s)\n",
				round.RoundTitle, round.AverageScore, round.QuestionsCount,
				strings.Join(round.QuestionTypes, ", "))
		}
	}
	if len(summary.Strengths) > 0 {
		fmt.Println("\n💪 Сильные стороны:")
		for _, s := range summary.Strengths {
			fmt.Printf("  • %s\n", s)
		}
	}
	if len(summary.AreasForImprovement) > 0 {
		fmt.Println("\n📈 Зоны роста:")
		for _, a := range summary.AreasForImprovement {
			fmt.Printf("  • %s\n", a)
		}
	}
	if len(summary.Recommendations) > 0 {
		fmt.Println("\n💡 Рекомендации:")
		for _, r := range summary.Recommendations {
			fmt.Printf("  • %s\n", r)
		}
	}
	if summary.OverallFeedback != "" {
		fmt.Printf("\n💬 %s\n", summary.OverallFeedback)
	}
}

// printStatus показывает состояние сессии, таймера и счетчики
func (h *Handler) printStatus() {
	ctrl := h.controller()

	fmt.Println("\n📊 *Состояние*")
	if ctrl.SessionID() == "" {
		fmt.Println("Сессия не запущена.")
	} else {
		fmt.Printf("🆔 Сессия: `%s`\n", ctrl.SessionID())
		fmt.Printf("📋 Раунд: %s\n", ctrl.RoundTitle())
		fmt.Printf("⏰ Состояние: %s\n", stateDescription(ctrl.State()))
	}

	switch ctrl.TimerState() {
	case timer.StateRunning:
		remaining := ctrl.TimerRemaining()
		fmt.Printf("⏳ Осталось времени: %02d:%02d\n", remaining/60, remaining%60)
	case timer.StateExpired:
		fmt.Println("⏳ Время раунда истекло (ответ все еще можно отправить).")
	}

	voiceState := "выключен 🔇"
	if h.voice.Enabled {
		voiceState = fmt.Sprintf("включен 🔊 (голос: %s)", h.voice.Voice)
	}
	fmt.Printf("🎙 Голосовой режим: %s\n", voiceState)
	if h.recognizer != nil && h.recognizer.Listening() {
		fmt.Println("🎤 Идет диктовка ответа.")
	}

	snapshot := h.metrics.GetSnapshot()
	fmt.Printf("📈 Вопросов: %d, ответов: %d, подсказок: %d, запросов к бэкенду: %d/%d успешных\n",
		snapshot.QuestionsReceived, snapshot.AnswersSubmitted, snapshot.HintsRequested,
		snapshot.APICallsSuccessful, snapshot.APICallsTotal)
}

// stateDescription переводит состояние сессии для пользователя
func stateDescription(state session.State) string {
	switch state {
	case session.StateIdle:
		return "Ожидание"
	case session.StateWaitingAnswer:
		return "Ожидание ответа"
	case session.StateSubmitting:
		return "Отправка ответа"
	case session.StateCompleted:
		return "Завершено"
	default:
		return "Неизвестно"
	}
}

// printHelp показывает список команд
func (h *Handler) printHelp() {
	fmt.Println(`🤖 *Клиент мок-интервью*

*Ответы:*
• Текстовый раунд — напишите ответ одной строкой и нажмите Enter
• Кодовый раунд — вводите строки кода, завершите одной точкой (.)
• MCQ раунд — введите букву (A, B, ...) или номер варианта
• /submit — отправить надиктованный через /listen ответ

*Команды:*
/status - Состояние сессии, таймер и счетчики
/plan - План интервью
/hint - Подсказка к текущему вопросу
/say - Озвучить вопрос
/voice [on|off|голос] - Голосовой режим
/listen - Включить/выключить диктовку ответа
/dismiss - Скрыть оценку предыдущего ответа
/summary - Итоговый отчет (после завершения)
/ats [файл] - ATS-проверка резюме
/behavior <файл.jpg> - Анализ поведения по снимку
/avatar - Видео аватара для текущего вопроса
/answers - Локальный журнал ответов
/restart - Начать новое интервью
/stop - Выход
/help - Это сообщение

*Таймер:* technical/dsa — 45 минут, mcq — 2, остальные — 8.
Истечение времени ничего не блокирует, это только напоминание.`)
}

package console

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"mock-interview-cli/internal/api"
	"mock-interview-cli/internal/storage"
)

// bootstrap восстанавливает сессию или запускает новую.
// Порядок: локальный снимок → активная сессия на бэкенде → настройка.
func (h *Handler) bootstrap() error {
	if setup, err := h.store.LoadSetup(); err == nil && setup != nil {
		h.setup = setup
	}

	// 1. Локальный снимок: перезапуск клиента не требует сети
	snapshot, err := h.store.LoadSnapshot()
	if err != nil {
		fmt.Printf("⚠️ Локальный снимок не прочитан: %v\n", err)
	}
	if snapshot != nil && snapshot.Exchange != nil {
		exchange := snapshot.Exchange
		if exchange.SessionID == "" {
			exchange.SessionID = snapshot.SessionID
		}
		if err := h.controller().Bootstrap(exchange); err == nil {
			fmt.Printf("🔄 Сессия `%s` восстановлена из локального хранилища.\n", snapshot.SessionID)
			return nil
		}
		fmt.Println("⚠️ Локальный снимок поврежден, пробую бэкенд...")
	}

	// 2. Активная сессия на бэкенде
	resp, err := h.client.CurrentSession()
	h.metrics.IncrementAPICall(err == nil)
	if err != nil {
		fmt.Printf("⚠️ Бэкенд не ответил на current-session: %v\n", err)
	} else if resp != nil {
		if err := h.controller().Bootstrap(resp); err != nil {
			return fmt.Errorf("бэкенд вернул некорректную сессию: %w", err)
		}
		h.saveSnapshot(resp)
		fmt.Printf("🔄 Активная сессия `%s` возобновлена с бэкенда.\n", resp.SessionID)
		return nil
	}

	// 3. Сессии нет — собираем параметры и запускаем новое интервью
	return h.runSetup()
}

// runSetup спрашивает параметры интервью и запускает сессию.
// Сетевая ошибка запуска отличима от «сессии нет»: пользователю
// предлагается повтор с теми же параметрами.
func (h *Handler) runSetup() error {
	fmt.Println("\n🎯 Настройка нового интервью")
	fmt.Println("Заполните несколько полей, и бэкенд соберет план интервью.")

	setup := &storage.SetupParams{}
	setup.JobRole = h.prompt("Должность (например, Software Engineer): ")
	setup.CompanyName = h.prompt("Компания (например, Google): ")
	setup.YearsOfExperience = h.promptInt("Лет опыта: ")
	setup.JobDescription = h.prompt("Описание вакансии (одной строкой): ")

	for {
		path := h.prompt("Путь к резюме (Enter — пропустить): ")
		if path == "" {
			break
		}
		if _, err := os.Stat(path); err != nil {
			fmt.Printf("❌ Файл не найден: %s\n", path)
			continue
		}
		setup.ResumePath = path
		break
	}

	request := &api.StartRequest{
		ResumePath:        setup.ResumePath,
		JobDescription:    setup.JobDescription,
		YearsOfExperience: setup.YearsOfExperience,
		JobRole:           setup.JobRole,
		CompanyName:       setup.CompanyName,
	}

	// План интервью — до запуска, чтобы пользователь знал, что его ждет
	plan, err := h.client.PreviewPlan(request)
	h.metrics.IncrementAPICall(err == nil)
	if err != nil {
		fmt.Printf("⚠️ Не удалось получить план интервью: %v\n", err)
	} else {
		renderPlan(plan)
		if err := h.store.SavePlan(plan); err != nil {
			fmt.Printf("⚠️ Не удалось сохранить план: %v\n", err)
		}
	}

	for {
		fmt.Println("\n🚀 Запускаю интервью...")
		resp, err := h.client.StartInterview(request)
		h.metrics.IncrementAPICall(err == nil)
		if err == nil {
			if err := h.controller().Bootstrap(resp); err != nil {
				return fmt.Errorf("бэкенд вернул некорректный первый вопрос: %w", err)
			}
			h.setup = setup
			if err := h.store.SaveSetup(setup); err != nil {
				fmt.Printf("⚠️ Не удалось сохранить параметры: %v\n", err)
			}
			h.saveSnapshot(resp)
			fmt.Printf("✅ Интервью запущено! ID сессии: `%s`\n", resp.SessionID)
			fmt.Println("Отвечайте на вопросы текстом, /help — список команд.")
			return nil
		}

		fmt.Printf("❌ Не удалось запустить интервью: %v\n", err)
		retry := h.prompt("Повторить попытку с теми же параметрами? (y/N): ")
		if !strings.EqualFold(retry, "y") {
			return fmt.Errorf("интервью не запущено")
		}
	}
}

// prompt читает одну строку ответа на вопрос настройки
func (h *Handler) prompt(label string) string {
	fmt.Print(label)
	if !h.scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(h.scanner.Text())
}

// promptInt читает целое число, повторяя вопрос при опечатке
func (h *Handler) promptInt(label string) int {
	for {
		raw := h.prompt(label)
		if raw == "" {
			return 0
		}
		value, err := strconv.Atoi(raw)
		if err == nil && value >= 0 {
			return value
		}
		fmt.Println("❌ Введите неотрицательное число.")
	}
}

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"mock-interview-cli/internal/api"
	"mock-interview-cli/internal/config"
	"mock-interview-cli/internal/console"
	"mock-interview-cli/internal/metrics"
	"mock-interview-cli/internal/session"
	"mock-interview-cli/internal/speech"
	"mock-interview-cli/internal/storage"
	"mock-interview-cli/internal/timer"
)

func main() {
	fmt.Println("🚀 Запуск клиента мок-интервью...")

	// Переменные окружения из .env, если он есть
	if err := godotenv.Load(); err == nil {
		fmt.Println("✅ Загружен .env файл")
	}

	// Загружаем конфигурацию клиента
	configPath := os.Getenv("INTERVIEW_CONFIG")
	if configPath == "" {
		configPath = "config/client.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}
	config.ApplyEnv(cfg)

	// Инициализируем сервисы
	fmt.Println("🔧 Инициализация сервисов...")

	store := storage.New(cfg.Storage.StateDir)

	voiceSettings, err := store.LoadVoiceSettings()
	if err != nil {
		log.Printf("⚠️ Настройки голоса не прочитаны, использую значения по умолчанию: %v", err)
	}

	client := api.NewClient(cfg.Backend.BaseURL, cfg.Timeout())
	appMetrics := metrics.NewMetrics()

	synth := speech.NewSynthesizer(client, cfg.Audio.PlayerCommand, cfg.Audio.LocalTTSCommand)

	roundTimer := timer.New(func() {
		fmt.Println("\n⏰ Время раунда истекло! Ответ все еще можно отправить.")
	})

	newController := func() *session.Controller {
		return session.New(roundTimer, synth, &voiceSettings, appMetrics)
	}

	handler := console.NewHandler(
		newController(),
		newController,
		client,
		store,
		cfg,
		&voiceSettings,
		synth,
		appMetrics,
	)

	recognizer := speech.NewRecognizer(client, synth, cfg.Audio.RecorderCommand, cfg.Audio.ChunkSeconds, handler.OnTranscript)
	handler.SetRecognizer(recognizer)

	// Выводим информацию о конфигурации
	fmt.Println("\n📋 Конфигурация:")
	fmt.Printf("• Бэкенд: %s\n", cfg.Backend.BaseURL)
	fmt.Printf("• Хранилище: %s\n", cfg.Storage.StateDir)

	if synth.Supported() {
		fmt.Println("• Озвучка вопросов: доступна 🔊")
	} else {
		fmt.Println("• Озвучка вопросов: недоступна (нет плеера и синтезатора) ⚠️")
	}
	if recognizer.Supported() {
		fmt.Println("• Диктовка ответов: доступна 🎤")
	} else {
		fmt.Printf("• Диктовка ответов: недоступна (команда %s не найдена) ⚠️\n", cfg.Audio.RecorderCommand)
	}

	fmt.Println()
	if err := handler.Run(); err != nil {
		log.Fatalf("Ошибка работы клиента: %v", err)
	}
}

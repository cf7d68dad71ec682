package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"thinktap/pkg/config"
	"thinktap/pkg/handler"
	"thinktap/pkg/llm"
	_ "thinktap/pkg/llm/autoload" // 自動註冊 LLM Providers
	"thinktap/pkg/monitor"
	"thinktap/pkg/plugins"
	_ "thinktap/pkg/plugins/autoload" // 自動註冊 Plugins

	"github.com/joho/godotenv"
)

func main() {
	// .env 先於設定檔載入，API key 等機密可放環境變數
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env file")
	}

	monitor.PrintBanner()

	// --- 0. 讀取設定檔 ---
	cfg, sysCfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v\n", err)
	}
	monitor.SetupSlog(sysCfg.LogLevel)

	// --- 1. LLM 設定 ---
	provider, err := llm.NewFromConfig(cfg.LLM, sysCfg)
	if err != nil {
		log.Fatalf("❌ Failed to init LLM provider: %v\n", err)
	}

	// --- 2. Plugin Host 初始化（使用 Builder 模式）---
	host, err := plugins.NewHostBuilder().
		WithProvider(provider).
		WithMonitor(monitor.NewCLIMonitor()).
		WithSystemConfig(sysCfg).
		WithPluginConfigs(cfg.Plugins).
		Build()
	if err != nil {
		log.Fatalf("❌ Failed to build plugin host: %v\n", err)
	}

	// --- 3. 對話處理器 ---
	chatHistory := llm.NewChatHistory()
	chat := handler.NewChatHandler(provider, host, cfg, sysCfg, chatHistory)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 設定檔變更時重載插件（還原 → 重新安裝）
	reloadCh := config.WatchConfig(ctx, "config.json")
	go func() {
		for range reloadCh {
			newCfg, _, err := config.Load()
			if err != nil {
				log.Printf("⚠️ Reload skipped, config invalid: %v", err)
				continue
			}
			host.Reload(newCfg.Plugins)
		}
	}()

	// --- 4. REPL ---
	go runREPL(ctx, chat)

	// 監聽系統信號
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	log.Println("\nReceived shutdown signal. Stopping services...")

	// 執行清理（插件 Terminate 會還原所有已安裝的 hook）
	host.StopAll()
	log.Println("Bye!")
}

// runREPL 從 stdin 讀取使用者輸入並逐輪送入對話處理器
func runREPL(ctx context.Context, chat *handler.ChatHandler) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			fmt.Print("> ")
			continue
		}
		if text == "/quit" || text == "/exit" {
			// 交給 signal 流程統一清理
			syscall.Kill(syscall.Getpid(), syscall.SIGTERM)
			return
		}

		if _, err := chat.HandleMessage(ctx, text); err != nil {
			log.Printf("❌ %v", err)
		}
		fmt.Print("> ")
	}
}

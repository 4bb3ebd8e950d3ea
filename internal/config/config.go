package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config содержит конфигурацию приложения
type Config struct {
	RunAddress  string        // Адрес и порт запуска сервиса
	DatabaseURI string        // URI подключения к БД
	JWTSecret   string        // Секретный ключ для JWT
	JWTTokenTTL time.Duration // Время жизни access токена
	LogLevel    string        // Уровень логирования
	Env         string        // Окружение: development | production
	AppDomain   string        // Публичный домен для ссылок в письмах

	// Платежный провайдер (ЮKassa)
	YooKassaShopID    string // Идентификатор магазина
	YooKassaSecretKey string // Секретный ключ магазина
	YooKassaReturnURL string // Страница возврата после оплаты
	YooKassaAPIBase   string // Базовый URL API провайдера

	// Ценообразование: себестоимость юнитов и множитель.
	// Указатели: отсутствие значения не равно нулю, без себестоимости
	// продажи просто закрыты, а не бесплатны.
	CostImageRub       *float64
	CostVideoRub       *float64
	CostTrainingRub    *float64
	MinPriceMultiplier float64

	// Аутентификация
	RefreshTokenTTL      time.Duration // Время жизни refresh сессии
	VerificationTokenTTL time.Duration // Время жизни ссылки подтверждения почты
	AdminBootstrapToken  string        // Одноразовый токен выдачи роли admin
	MinPasswordLength    int           // Минимальная длина пароля

	// Worker Pool конфигурация
	WorkerPoolSize     int           // Количество воркеров
	WorkerQueueSize    int           // Размер очереди платежей
	WorkerScanInterval time.Duration // Интервал сканирования незакрытых платежей
	WorkerStaleAfter   time.Duration // Возраст платежа до принудительной сверки
}

// Load загружает конфигурацию из переменных окружения и флагов
// Приоритет: env переменные > флаги > дефолтные значения
func Load() (*Config, error) {
	cfg := &Config{
		JWTTokenTTL:          24 * time.Hour,
		LogLevel:             "info",
		Env:                  "development",
		AppDomain:            "localhost:8080",
		YooKassaAPIBase:      "https://api.yookassa.ru/v3",
		MinPriceMultiplier:   2.0,
		RefreshTokenTTL:      30 * 24 * time.Hour,
		VerificationTokenTTL: 24 * time.Hour,
		MinPasswordLength:    8,
		WorkerPoolSize:       3,
		WorkerQueueSize:      100,
		WorkerScanInterval:   time.Minute,
		WorkerStaleAfter:     5 * time.Minute,
	}

	// Определяем флаги
	flag.StringVar(&cfg.RunAddress, "a", ":8080", "address and port to run server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.Parse()

	// Переменные окружения имеют приоритет над флагами
	if envRunAddr, ok := os.LookupEnv("RUN_ADDRESS"); ok {
		cfg.RunAddress = envRunAddr
	}

	if envDBURI, ok := os.LookupEnv("DATABASE_URI"); ok {
		cfg.DatabaseURI = envDBURI
	}

	// JWT секрет (только из env, не из флагов для безопасности)
	if envJWTSecret, ok := os.LookupEnv("JWT_SECRET"); ok {
		cfg.JWTSecret = envJWTSecret
	} else {
		cfg.JWTSecret = "default-secret-key-change-in-production"
	}

	if envLogLevel, ok := os.LookupEnv("LOG_LEVEL"); ok {
		cfg.LogLevel = envLogLevel
	}

	if envEnv, ok := os.LookupEnv("ENV"); ok {
		cfg.Env = envEnv
	}

	if envAppDomain, ok := os.LookupEnv("APP_DOMAIN"); ok {
		cfg.AppDomain = envAppDomain
	}

	// Платежный провайдер: без этих значений чекаут отключен, но сервис стартует
	if envShopID, ok := os.LookupEnv("YOOKASSA_SHOP_ID"); ok {
		cfg.YooKassaShopID = envShopID
	}

	if envSecretKey, ok := os.LookupEnv("YOOKASSA_SECRET_KEY"); ok {
		cfg.YooKassaSecretKey = envSecretKey
	}

	if envReturnURL, ok := os.LookupEnv("YOOKASSA_RETURN_URL"); ok {
		cfg.YooKassaReturnURL = envReturnURL
	} else {
		cfg.YooKassaReturnURL = fmt.Sprintf("https://%s/pay/return", cfg.AppDomain)
	}

	if envAPIBase, ok := os.LookupEnv("YOOKASSA_API_BASE"); ok {
		cfg.YooKassaAPIBase = envAPIBase
	}

	// Ценообразование
	if v, ok := lookupFloat("COST_IMAGE_RUB"); ok {
		cfg.CostImageRub = &v
	}

	if v, ok := lookupFloat("COST_VIDEO_RUB"); ok {
		cfg.CostVideoRub = &v
	}

	if v, ok := lookupFloat("COST_TRAINING_RUB"); ok {
		cfg.CostTrainingRub = &v
	}

	if v, ok := lookupFloat("MIN_PRICE_MULTIPLIER"); ok && v > 0 {
		cfg.MinPriceMultiplier = v
	}

	// Аутентификация
	if envBootstrapToken, ok := os.LookupEnv("ADMIN_BOOTSTRAP_TOKEN"); ok {
		cfg.AdminBootstrapToken = envBootstrapToken
	}

	if envRefreshTTL, ok := os.LookupEnv("REFRESH_TOKEN_TTL"); ok {
		if ttl, err := time.ParseDuration(envRefreshTTL); err == nil && ttl > 0 {
			cfg.RefreshTokenTTL = ttl
		}
	}

	if envVerifyTTL, ok := os.LookupEnv("VERIFICATION_TOKEN_TTL"); ok {
		if ttl, err := time.ParseDuration(envVerifyTTL); err == nil && ttl > 0 {
			cfg.VerificationTokenTTL = ttl
		}
	}

	if envMinPassword, ok := os.LookupEnv("MIN_PASSWORD_LENGTH"); ok {
		if n, err := strconv.Atoi(envMinPassword); err == nil && n > 0 {
			cfg.MinPasswordLength = n
		}
	}

	// Worker Pool конфигурация из env
	if envWorkerPoolSize, ok := os.LookupEnv("WORKER_POOL_SIZE"); ok {
		if size, err := strconv.Atoi(envWorkerPoolSize); err == nil && size > 0 {
			cfg.WorkerPoolSize = size
		}
	}

	if envWorkerQueueSize, ok := os.LookupEnv("WORKER_QUEUE_SIZE"); ok {
		if size, err := strconv.Atoi(envWorkerQueueSize); err == nil && size > 0 {
			cfg.WorkerQueueSize = size
		}
	}

	if envScanInterval, ok := os.LookupEnv("WORKER_SCAN_INTERVAL"); ok {
		if interval, err := time.ParseDuration(envScanInterval); err == nil && interval > 0 {
			cfg.WorkerScanInterval = interval
		}
	}

	if envStaleAfter, ok := os.LookupEnv("WORKER_STALE_AFTER"); ok {
		if age, err := time.ParseDuration(envStaleAfter); err == nil && age > 0 {
			cfg.WorkerStaleAfter = age
		}
	}

	// Валидация обязательных параметров
	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI is required (use -d flag or DATABASE_URI env)")
	}

	return cfg, nil
}

func lookupFloat(name string) (float64, bool) {
	raw, ok := os.LookupEnv(name)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

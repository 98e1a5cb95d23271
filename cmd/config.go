package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "nfind"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	patternFlagName   = "pattern"
	stage1FlagName    = "stage1"
	stage2FlagName    = "stage2"
	progressFlagName  = "progress"
	filterFlagName    = "filter"
	logicFlagName     = "logic"
	sortFlagName      = "sort"
	uniqueFlagName    = "unique"
	limitFlagName     = "limit"
	firstFlagName     = "first"
	countFlagName     = "count"
	batchSizeFlagName = "batch-size"
	formatFlagName    = "format"
	parallelFlagName  = "parallel"
	logFileFlagName   = "log-file"
	verboseFlagName   = "verbose"

	scanPatternsKey     = "scan.patterns"
	subjectsStage1Key   = "subjects.stage1"
	subjectsStage2Key   = "subjects.stage2"
	subjectsProgressKey = "subjects.progress"
	filtersLogicKey     = "filters.logic"
	filtersRulesKey     = "filters.rules"
	outputFormatKey     = "output.format"
	outputSortKey       = "output.sort"
	outputUniqueKey     = "output.unique"
	runParallelKey      = "run.parallel"

	defaultFiltersLogic     = "and"
	defaultOutputFormat     = "text"
	defaultRunParallel      = 1
	defaultSubjectsProgress = false

	envPrefix = "NFIND"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".nfind.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var (
	defaultScanPatterns   = []string{"*"}
	defaultSubjectsStage1 = []string{"*"}
	defaultSubjectsStage2 = []string{"*.nii*"}
)

var globalLogger *slog.Logger

// configErr holds the failure to parse an existing config file.
var configErr error

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(scanPatternsKey, defaultScanPatterns)
	viper.SetDefault(subjectsStage1Key, defaultSubjectsStage1)
	viper.SetDefault(subjectsStage2Key, defaultSubjectsStage2)
	viper.SetDefault(subjectsProgressKey, defaultSubjectsProgress)
	viper.SetDefault(filtersLogicKey, defaultFiltersLogic)
	viper.SetDefault(filtersRulesKey, []map[string]any{})
	viper.SetDefault(outputFormatKey, defaultOutputFormat)
	viper.SetDefault(outputSortKey, false)
	viper.SetDefault(outputUniqueKey, false)
	viper.SetDefault(runParallelKey, defaultRunParallel)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return
		}

		configErr = fmt.Errorf("read %s: %w", configFileName, err)
	}
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}

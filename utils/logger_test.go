/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package utils

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLogLevel(" DEBUG "))
	assert.Equal(t, logrus.WarnLevel, ParseLogLevel("warning"))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel(""))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel("verbose"))
}

func TestNewLoggerIsRegistered(t *testing.T) {
	a := NewLogger("REGISTRY_TEST")
	assert.Same(t, a, NewLogger("REGISTRY_TEST"))

	ConfigureLogLevel("error")
	defer ConfigureLogLevel("info")
	assert.Equal(t, logrus.ErrorLevel, a.GetLevel())
	assert.Equal(t, logrus.ErrorLevel, NewLogger("REGISTRY_LATE").GetLevel())
}

func TestLog4jFormatter(t *testing.T) {
	f := &Log4jFormatter{LoggerName: "SERVICE", NameWidth: 10}
	entry := &logrus.Entry{
		Time:    time.Date(2024, 1, 2, 3, 4, 5, 6000000, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "store failure",
		Data:    logrus.Fields{"operation": "RetrieveUsers", "kind": "unknown"},
	}
	out, err := f.Format(entry)
	require.NoError(t, err)
	line := string(out)
	assert.True(t, strings.HasPrefix(line, "2024-01-02 03:04:05.006  WARN "))
	assert.Contains(t, line, "[   SERVICE]")
	assert.True(t, strings.HasSuffix(line, ": store failure kind=unknown operation=RetrieveUsers\n"))
}

func TestJSONLogFormatter(t *testing.T) {
	f := &JSONLogFormatter{LoggerName: "HTTP"}
	entry := &logrus.Entry{
		Time:    time.Now(),
		Level:   logrus.InfoLevel,
		Message: "request",
		Data:    logrus.Fields{"status": 200, logrus.ErrorKey: assert.AnError},
	}
	out, err := f.Format(entry)
	require.NoError(t, err)

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &rec))
	assert.Equal(t, "info", rec["level"])
	assert.Equal(t, "HTTP", rec["model"])
	fields := rec["fields"].(map[string]interface{})
	assert.Equal(t, float64(200), fields["status"])
	assert.Equal(t, assert.AnError.Error(), fields["error"])
}

func TestConfigureConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("OUTPUT_TEST")
	ConfigureConsoleOutput(&buf)
	defer ConfigureConsoleOutput(&bytes.Buffer{})

	l.SetLevel(logrus.InfoLevel)
	l.Info("hello")
	assert.Contains(t, buf.String(), "hello")
}

func TestEnvDefaultString(t *testing.T) {
	t.Setenv("STOREFRONT_TEST_STRING", "  value ")

	assert.Equal(t, "value", EnvDefaultString("STOREFRONT_TEST_STRING", "def"))
	assert.Equal(t, "def", EnvDefaultString("STOREFRONT_TEST_MISSING", "def"))
}

package schedule

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigWireFormat(t *testing.T) {
	cfg := mustBuild(t, ForJob("payroll").
		Param("region", "emea").
		InitialDelay(10*time.Minute).
		Interval(2*time.Hour).
		Persistent(true))

	data, err := json.Marshal(cfg)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"jobName": "payroll",
		"jobExecutionId": 0,
		"jobParameters": {"region": "emea"},
		"initialDelay": 10,
		"afterDelay": 0,
		"interval": 120,
		"persistent": true
	}`, string(data))
}

func TestConfigWireFormatWithExpression(t *testing.T) {
	start := time.UnixMilli(1792368000000).UTC()
	cfg := mustBuild(t, ForExecution(42).Expression(&Expression{
		Minute:    "30",
		Hour:      "2",
		DayOfWeek: "Mon-Fri",
		Timezone:  "UTC",
		Start:     &start,
	}))

	data, err := json.Marshal(cfg)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"jobExecutionId": 42,
		"scheduleExpression": {
			"minute": "30",
			"hour": "2",
			"dayOfWeek": "Mon-Fri",
			"timezone": "UTC",
			"start": 1792368000000
		},
		"initialDelay": 0,
		"afterDelay": 0,
		"interval": 0,
		"persistent": false
	}`, string(data))
}

func TestConfigDecodesServerEcho(t *testing.T) {
	var cfg Config
	err := json.Unmarshal([]byte(`{
		"jobName": null,
		"jobExecutionId": 42,
		"jobParameters": null,
		"scheduleExpression": {"second": "0", "minute": "0", "hour": "3", "dayOfMonth": "*",
			"month": "*", "dayOfWeek": "*", "year": "*", "timezone": null, "start": null, "end": null},
		"initialDelay": 1,
		"afterDelay": 0,
		"interval": 0,
		"persistent": true
	}`), &cfg)
	require.NoError(t, err)

	assert.Equal(t, int64(42), cfg.JobExecutionID())
	assert.Equal(t, "", cfg.JobName())
	assert.Equal(t, time.Minute, cfg.InitialDelay())
	assert.True(t, cfg.Persistent())
	assert.True(t, cfg.IsRepeating())
	require.NotNil(t, cfg.Expression())
	assert.Equal(t, "0 0 3 * * *", cfg.Expression().Cron())
}

func TestConfigRoundTripPreservesEquality(t *testing.T) {
	original := mustBuild(t, ForJob("payroll").Param("a", "1").AfterDelay(3*time.Minute))

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Config
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, original.Equal(&decoded))
}

func TestCombinedMechanismsBuildLikeTheyDecode(t *testing.T) {
	built, err := ForJob("payroll").Interval(time.Minute).AfterDelay(time.Minute).Build()
	require.NoError(t, err)

	var decoded Config
	require.NoError(t, json.Unmarshal([]byte(`{"jobName":"payroll","interval":1,"afterDelay":1}`), &decoded))

	assert.True(t, built.IsRepeating())
	assert.True(t, decoded.IsRepeating())
	assert.True(t, built.Equal(&decoded))
}

package batch

import "net/http"

// Resource is a top-level collection of the batch REST API.
type Resource string

const (
	ResourceJob          Resource = "Job"
	ResourceJobInstance  Resource = "JobInstance"
	ResourceJobExecution Resource = "JobExecution"
	ResourceJobSchedule  Resource = "JobSchedule"
)

// resourceRoots maps each resource to its path under the base URL.
var resourceRoots = map[Resource]string{
	ResourceJob:          "jobs",
	ResourceJobInstance:  "jobinstances",
	ResourceJobExecution: "jobexecutions",
	ResourceJobSchedule:  "jobschedules",
}

// Path template placeholders.
const (
	ParamJobXMLName      = "jobXmlName"
	ParamJobExecutionID  = "jobExecutionId"
	ParamStepExecutionID = "stepExecutionId"
	ParamScheduleID      = "scheduleId"
)

// Operation names one action on a resource. An empty Name addresses the
// resource root itself.
type Operation struct {
	Resource Resource
	Name     string
}

func (o Operation) String() string {
	if o.Name == "" {
		return string(o.Resource)
	}
	return string(o.Resource) + "/" + o.Name
}

var (
	OpListJobs    = Operation{ResourceJob, ""}
	OpStartJob    = Operation{ResourceJob, "start"}
	OpRestartJob  = Operation{ResourceJob, "restart"}
	OpScheduleJob = Operation{ResourceJob, "schedule"}

	OpListJobInstances = Operation{ResourceJobInstance, ""}

	OpListJobExecutions    = Operation{ResourceJobExecution, ""}
	OpGetJobExecution      = Operation{ResourceJobExecution, "getJobExecution"}
	OpRunningExecutions    = Operation{ResourceJobExecution, "getRunningExecutions"}
	OpRestartJobExecution  = Operation{ResourceJobExecution, "restart"}
	OpStopJobExecution     = Operation{ResourceJobExecution, "stop"}
	OpAbandonJobExecution  = Operation{ResourceJobExecution, "abandon"}
	OpGetStepExecutions    = Operation{ResourceJobExecution, "getStepExecutions"}
	OpGetStepExecution     = Operation{ResourceJobExecution, "getStepExecution"}
	OpScheduleJobExecution = Operation{ResourceJobExecution, "schedule"}

	OpGetJobSchedules   = Operation{ResourceJobSchedule, "getJobSchedules"}
	OpGetJobSchedule    = Operation{ResourceJobSchedule, "getJobSchedule"}
	OpCancelJobSchedule = Operation{ResourceJobSchedule, "cancel"}
)

type route struct {
	method   string
	template string // relative to the resource root
}

var routes = map[Operation]route{
	OpListJobs:    {http.MethodGet, ""},
	OpStartJob:    {http.MethodPost, "{jobXmlName}/start"},
	OpRestartJob:  {http.MethodPost, "{jobXmlName}/restart"},
	OpScheduleJob: {http.MethodPost, "{jobXmlName}/schedule"},

	OpListJobInstances: {http.MethodGet, ""},

	OpListJobExecutions:    {http.MethodGet, ""},
	OpGetJobExecution:      {http.MethodGet, "{jobExecutionId}"},
	OpRunningExecutions:    {http.MethodGet, "running"},
	OpRestartJobExecution:  {http.MethodPost, "{jobExecutionId}/restart"},
	OpStopJobExecution:     {http.MethodPost, "{jobExecutionId}/stop"},
	OpAbandonJobExecution:  {http.MethodPost, "{jobExecutionId}/abandon"},
	OpGetStepExecutions:    {http.MethodGet, "{jobExecutionId}/stepexecutions"},
	OpGetStepExecution:     {http.MethodGet, "{jobExecutionId}/stepexecutions/{stepExecutionId}"},
	OpScheduleJobExecution: {http.MethodPost, "{jobExecutionId}/schedule"},

	OpGetJobSchedules:   {http.MethodGet, ""},
	OpGetJobSchedule:    {http.MethodGet, "{scheduleId}"},
	OpCancelJobSchedule: {http.MethodPost, "{scheduleId}/cancel"},
}

// Method returns the HTTP method of a known operation.
func (o Operation) Method() (string, bool) {
	r, ok := routes[o]
	return r.method, ok
}

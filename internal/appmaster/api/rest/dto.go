package rest

// Records are encoded as JSON or XML. Times are epoch milliseconds with 0
// meaning unset; progress values are percentages.

type AppInfo struct {
	AppID       string `json:"appId" xml:"appId"`
	Name        string `json:"name" xml:"name"`
	User        string `json:"user" xml:"user"`
	StartedOn   int64  `json:"startedOn" xml:"startedOn"`
	ElapsedTime int64  `json:"elapsedTime" xml:"elapsedTime"`
}

type JobsInfo struct {
	Jobs []JobInfo `json:"job" xml:"job"`
}

type JobInfo struct {
	ID               string   `json:"id" xml:"id"`
	Name             string   `json:"name" xml:"name"`
	User             string   `json:"user" xml:"user"`
	State            string   `json:"state" xml:"state"`
	StartTime        int64    `json:"startTime" xml:"startTime"`
	FinishTime       int64    `json:"finishTime" xml:"finishTime"`
	ElapsedTime      int64    `json:"elapsedTime" xml:"elapsedTime"`
	MapsTotal        int      `json:"mapsTotal" xml:"mapsTotal"`
	MapsCompleted    int      `json:"mapsCompleted" xml:"mapsCompleted"`
	ReducesTotal     int      `json:"reducesTotal" xml:"reducesTotal"`
	ReducesCompleted int      `json:"reducesCompleted" xml:"reducesCompleted"`
	MapProgress      float32  `json:"mapProgress" xml:"mapProgress"`
	ReduceProgress   float32  `json:"reduceProgress" xml:"reduceProgress"`
	Uberized         bool     `json:"uberized" xml:"uberized"`
	Diagnostics      []string `json:"diagnostics,omitempty" xml:"diagnostics,omitempty"`

	MapsPending    int `json:"mapsPending" xml:"mapsPending"`
	MapsRunning    int `json:"mapsRunning" xml:"mapsRunning"`
	ReducesPending int `json:"reducesPending" xml:"reducesPending"`
	ReducesRunning int `json:"reducesRunning" xml:"reducesRunning"`

	NewMapAttempts           int `json:"newMapAttempts" xml:"newMapAttempts"`
	RunningMapAttempts       int `json:"runningMapAttempts" xml:"runningMapAttempts"`
	FailedMapAttempts        int `json:"failedMapAttempts" xml:"failedMapAttempts"`
	KilledMapAttempts        int `json:"killedMapAttempts" xml:"killedMapAttempts"`
	SuccessfulMapAttempts    int `json:"successfulMapAttempts" xml:"successfulMapAttempts"`
	NewReduceAttempts        int `json:"newReduceAttempts" xml:"newReduceAttempts"`
	RunningReduceAttempts    int `json:"runningReduceAttempts" xml:"runningReduceAttempts"`
	FailedReduceAttempts     int `json:"failedReduceAttempts" xml:"failedReduceAttempts"`
	KilledReduceAttempts     int `json:"killedReduceAttempts" xml:"killedReduceAttempts"`
	SuccessfulReduceAttempts int `json:"successfulReduceAttempts" xml:"successfulReduceAttempts"`

	// ACLs is only filled for callers with view access.
	ACLs []ConfEntry `json:"acls,omitempty" xml:"acls,omitempty"`
}

type ConfEntry struct {
	Name  string `json:"name" xml:"name"`
	Value string `json:"value" xml:"value"`
}

type AMAttemptsInfo struct {
	Attempts []AMAttemptInfo `json:"jobAttempt" xml:"jobAttempt"`
}

type AMAttemptInfo struct {
	ID              int    `json:"id" xml:"id"`
	StartTime       int64  `json:"startTime" xml:"startTime"`
	ContainerID     string `json:"containerId" xml:"containerId"`
	NodeHTTPAddress string `json:"nodeHttpAddress" xml:"nodeHttpAddress"`
	NodeID          string `json:"nodeId" xml:"nodeId"`
	LogsLink        string `json:"logsLink" xml:"logsLink"`
}

type JobCounterInfo struct {
	ID     string                `json:"id" xml:"id"`
	Groups []JobCounterGroupInfo `json:"counterGroup" xml:"counterGroup"`
}

type JobCounterGroupInfo struct {
	Name     string            `json:"counterGroupName" xml:"counterGroupName"`
	Counters []JobCounterValue `json:"counter" xml:"counter"`
}

type JobCounterValue struct {
	Name        string `json:"name" xml:"name"`
	TotalValue  int64  `json:"totalCounterValue" xml:"totalCounterValue"`
	MapValue    int64  `json:"mapCounterValue" xml:"mapCounterValue"`
	ReduceValue int64  `json:"reduceCounterValue" xml:"reduceCounterValue"`
}

type TaskCounterInfo struct {
	ID     string             `json:"id" xml:"id"`
	Groups []CounterGroupInfo `json:"taskCounterGroup" xml:"taskCounterGroup"`
}

type AttemptCounterInfo struct {
	ID     string             `json:"id" xml:"id"`
	Groups []CounterGroupInfo `json:"taskAttemptCounterGroup" xml:"taskAttemptCounterGroup"`
}

type CounterGroupInfo struct {
	Name     string         `json:"counterGroupName" xml:"counterGroupName"`
	Counters []CounterValue `json:"counter" xml:"counter"`
}

type CounterValue struct {
	Name  string `json:"name" xml:"name"`
	Value int64  `json:"value" xml:"value"`
}

type ConfInfo struct {
	Path       string      `json:"path" xml:"path"`
	Properties []ConfEntry `json:"property" xml:"property"`
}

type TasksInfo struct {
	Tasks []TaskInfo `json:"task" xml:"task"`
}

type TaskInfo struct {
	ID                string  `json:"id" xml:"id"`
	State             string  `json:"state" xml:"state"`
	Type              string  `json:"type" xml:"type"`
	SuccessfulAttempt string  `json:"successfulAttempt" xml:"successfulAttempt"`
	Progress          float32 `json:"progress" xml:"progress"`
	StartTime         int64   `json:"startTime" xml:"startTime"`
	FinishTime        int64   `json:"finishTime" xml:"finishTime"`
	ElapsedTime       int64   `json:"elapsedTime" xml:"elapsedTime"`
}

// TaskAttemptsInfo holds *TaskAttemptInfo and *ReduceTaskAttemptInfo values.
type TaskAttemptsInfo struct {
	Attempts []any `json:"taskAttempt" xml:"taskAttempt"`
}

type TaskAttemptInfo struct {
	ID                  string  `json:"id" xml:"id"`
	State               string  `json:"state" xml:"state"`
	Type                string  `json:"type" xml:"type"`
	Rack                string  `json:"rack" xml:"rack"`
	NodeHTTPAddress     string  `json:"nodeHttpAddress" xml:"nodeHttpAddress"`
	Diagnostics         string  `json:"diagnostics" xml:"diagnostics"`
	AssignedContainerID string  `json:"assignedContainerId" xml:"assignedContainerId"`
	StartTime           int64   `json:"startTime" xml:"startTime"`
	FinishTime          int64   `json:"finishTime" xml:"finishTime"`
	ElapsedTime         int64   `json:"elapsedTime" xml:"elapsedTime"`
	Progress            float32 `json:"progress" xml:"progress"`
}

type ReduceTaskAttemptInfo struct {
	TaskAttemptInfo
	ShuffleFinishTime  int64 `json:"shuffleFinishTime" xml:"shuffleFinishTime"`
	MergeFinishTime    int64 `json:"mergeFinishTime" xml:"mergeFinishTime"`
	ElapsedShuffleTime int64 `json:"elapsedShuffleTime" xml:"elapsedShuffleTime"`
	ElapsedMergeTime   int64 `json:"elapsedMergeTime" xml:"elapsedMergeTime"`
	ElapsedReduceTime  int64 `json:"elapsedReduceTime" xml:"elapsedReduceTime"`
}

// ErrorResponse is the body of every failed read request.
type ErrorResponse struct {
	Exception string `json:"exception" xml:"exception"`
	Message   string `json:"message" xml:"message"`
	Code      int    `json:"code" xml:"code"`
}

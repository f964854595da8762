package worker

// Log message constants
const (
	LogMsgWorkerJobFailed = "Worker job failed"
	LogMsgWorkerQueueFull = "Worker queue full, dropping job"
	LogMsgSessionsSwept   = "Stale sessions swept"
	LogMsgCooldownsPruned = "Expired XP cooldowns pruned"
)

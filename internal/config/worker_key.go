package config

type WorkerKeyStruct struct {
	RemarkJobsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	RemarkJobsQueue: "remark_jobs_queue",
}

package email

const (
	subjectMilestoneFmt     = "Milestone completed: %s"
	subjectProjectHealthFmt = "Project update: %s"
)

package domain

// Outcome of a user-facing operation.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Result describes the side effects the caller should perform (a notification
// and possibly a navigation) instead of performing them.
type Result struct {
	Outcome   Outcome
	NoticeKey string
	// Redirect is empty when the user stays on the current page.
	Redirect string
	Err      error
}

func Succeeded(noticeKey, redirect string) Result {
	return Result{Outcome: OutcomeSuccess, NoticeKey: noticeKey, Redirect: redirect}
}

func Failed(noticeKey, redirect string, err error) Result {
	return Result{Outcome: OutcomeFailure, NoticeKey: noticeKey, Redirect: redirect, Err: err}
}

func (r Result) OK() bool { return r.Outcome == OutcomeSuccess }

// NoticeKey builds a catalog key such as "auction.saved".
func NoticeKey(kind EntityKind, event string) string {
	return string(kind) + "." + event
}

const (
	NoticeSaved        = "saved"
	NoticeSaveFailed   = "saveFailed"
	NoticeLoadFailed   = "loadFailed"
	NoticeUploaded     = "common.uploaded"
	NoticeUploadFailed = "common.uploadFailed"
	NoticeNotReady     = "common.uploadsPending"
	NoticeBusy         = "common.submitting"
)

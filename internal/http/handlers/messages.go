package handlers

const (
	notifTravelFailed  = "travel_failed"
	notifEditFailed    = "edit_failed"
	notifAnalyzeFailed = "analyze_failed"
)

var notifications = map[string]map[string]string{
	"en": {
		notifTravelFailed:  "Time travel malfunction! Please try again.",
		notifEditFailed:    "Edit failed. Please try again.",
		notifAnalyzeFailed: "Analysis failed.",
	},
	"id": {
		notifTravelFailed:  "Mesin waktu bermasalah! Silakan coba lagi.",
		notifEditFailed:    "Penyuntingan gagal. Silakan coba lagi.",
		notifAnalyzeFailed: "Analisis gagal.",
	},
}

func notification(locale, key string) string {
	if msgs, ok := notifications[locale]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	return notifications["en"][key]
}

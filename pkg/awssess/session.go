package awssess

import (
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
)

var sess *session.Session

// MustGetSession returns the shared AWS session used by the DynamoDB backend.
func MustGetSession() *session.Session {

	if sess != nil {
		return sess
	}

	switch os.Getenv("STAGE") {
	case "local":

		sess = session.Must(session.NewSessionWithOptions(session.Options{
			SharedConfigState: session.SharedConfigEnable,
			Profile:           os.Getenv("AWS_PROFILE"),
			Config: aws.Config{
				Region: aws.String(regionOrDefault()),
			},
		}))
	default:
		sess = session.Must(session.NewSessionWithOptions(session.Options{
			SharedConfigState: session.SharedConfigEnable,
		}))
	}
	return sess
}

func regionOrDefault() string {
	if r := os.Getenv("AWS_REGION"); r != "" {
		return r
	}
	return "us-east-1"
}

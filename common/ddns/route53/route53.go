package route53

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/route53"
	"github.com/aws/aws-sdk-go/service/route53/route53iface"
)

const DefaultTTL int64 = 300

// Route53 Implementation
type Route53 struct {
	svc     route53iface.Route53API
	ttl     int64
	timeout time.Duration
}

type Options struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Profile         string
	Endpoint        string
	TTL             int64
	Timeout         time.Duration
}

// New creates a client from the default credential chain, or from static
// credentials when both keys are given.
func New(o Options) (*Route53, error) {
	cfg := aws.NewConfig().WithMaxRetries(0)
	if o.Region != "" {
		cfg = cfg.WithRegion(o.Region)
	}
	if o.Endpoint != "" {
		cfg = cfg.WithEndpoint(o.Endpoint)
	}
	if o.AccessKeyID != "" && o.SecretAccessKey != "" {
		cfg = cfg.WithCredentials(credentials.NewStaticCredentials(o.AccessKeyID, o.SecretAccessKey, ""))
	}

	sess, err := session.NewSessionWithOptions(session.Options{
		Config:            *cfg,
		Profile:           o.Profile,
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}

	return NewWithAPI(route53.New(sess), o.TTL, o.Timeout), nil
}

func NewWithAPI(svc route53iface.Route53API, ttl int64, timeout time.Duration) *Route53 {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Route53{svc: svc, ttl: ttl, timeout: timeout}
}

// UpsertRecord creates or replaces the record set with a single value.
func (r *Route53) UpsertRecord(ctx context.Context, zoneID string, domain string, recordType string, ipAddr string) (string, error) {
	if ipAddr == "" {
		return "", errors.New("IP address is nil")
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	out, err := r.svc.ChangeResourceRecordSetsWithContext(ctx, &route53.ChangeResourceRecordSetsInput{
		HostedZoneId: aws.String(zoneID),
		ChangeBatch: &route53.ChangeBatch{
			Comment: aws.String("dynamic IP update"),
			Changes: []*route53.Change{{
				Action: aws.String(route53.ChangeActionUpsert),
				ResourceRecordSet: &route53.ResourceRecordSet{
					Name: aws.String(domain),
					Type: aws.String(recordType),
					TTL:  aws.Int64(r.ttl),
					ResourceRecords: []*route53.ResourceRecord{{
						Value: aws.String(ipAddr),
					}},
				},
			}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("[%s:%s] upsert %s record failure: %w", zoneID, domain, recordType, err)
	}
	if out.ChangeInfo == nil {
		return "", fmt.Errorf("[%s:%s] upsert %s record: empty change info", zoneID, domain, recordType)
	}

	return aws.StringValue(out.ChangeInfo.Id), nil
}

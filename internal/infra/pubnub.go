package infra

import (
	"fmt"

	"github.com/google/uuid"
	pubnub "github.com/pubnub/go"
)

func InitPubNub(publishKey, subscribeKey, secretKey string) (*pubnub.PubNub, error) {
	if publishKey == "" || subscribeKey == "" {
		return nil, fmt.Errorf("pubnub publish and subscribe keys are required")
	}
	config := pubnub.NewConfig()
	config.PublishKey = publishKey
	config.SubscribeKey = subscribeKey
	config.SecretKey = secretKey
	config.UUID = "mirage-server-" + uuid.NewString()
	return pubnub.NewPubNub(config), nil
}

package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskNormalizePhoneNumber = "phone:normalize_e164"

type NormalizePhoneNumberPayload struct {
	SavedNumberID string `json:"savedNumberId"`
}

func NewNormalizePhoneNumberTask(payload NormalizePhoneNumberPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNormalizePhoneNumber, data), nil
}

func ParseNormalizePhoneNumberPayload(task *asynq.Task) (NormalizePhoneNumberPayload, error) {
	var payload NormalizePhoneNumberPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return NormalizePhoneNumberPayload{}, err
	}
	return payload, nil
}

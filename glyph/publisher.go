package glyph

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MatchReport is the JSON payload published after classifying a stroke.
type MatchReport struct {
	Source    string  `json:"source"`
	Best      Match   `json:"best"`
	Matches   []Match `json:"matches"`
	Timestamp int64   `json:"timestamp"`
}

// Publisher manages publishing classification results to MQTT
type Publisher struct {
	client        mqtt.Client
	publishPrefix string
	qos           byte
	retain        bool
	reports       map[string]*MatchReport
	mu            sync.RWMutex
}

// NewPublisher creates a new match result publisher
// If client is nil, publishing is disabled (for testing)
func NewPublisher(client mqtt.Client) *Publisher {
	prefix := os.Getenv("MQTT_PUBLISH_PREFIX")
	if prefix == "" {
		prefix = "inkmesh"
	}

	return &Publisher{
		client:        client,
		publishPrefix: prefix,
		qos:           0,    // QoS 0: a lost match report is superseded by the next stroke anyway
		retain:        true, // Retain the latest result per source
		reports:       make(map[string]*MatchReport),
	}
}

// SetPublishPrefix overrides the topic prefix (normally from config).
func (p *Publisher) SetPublishPrefix(prefix string) {
	if prefix != "" {
		p.publishPrefix = prefix
	}
}

// PublishMatches publishes a source's ranked classification result to its
// individual topic and refreshes the combined results topic.
func (p *Publisher) PublishMatches(source string, matches []Match) error {
	if p.client == nil || !p.client.IsConnected() {
		return fmt.Errorf("MQTT client not connected")
	}

	report := &MatchReport{
		Source:    source,
		Matches:   matches,
		Timestamp: time.Now().Unix(),
	}
	if len(matches) > 0 {
		report.Best = matches[0]
	}

	p.mu.Lock()
	p.reports[source] = report
	p.mu.Unlock()

	if err := p.publishIndividual(report); err != nil {
		log.Printf("Error publishing matches for %s: %v", source, err)
		return err
	}

	if err := p.publishCombined(); err != nil {
		log.Printf("Error publishing combined matches: %v", err)
		return err
	}

	return nil
}

// publishIndividual publishes one source's result to its own topic
func (p *Publisher) publishIndividual(report *MatchReport) error {
	topic := fmt.Sprintf("%s/matches/%s", p.publishPrefix, report.Source)

	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling match report: %w", err)
	}

	token := p.client.Publish(topic, p.qos, p.retain, payload)
	if token.WaitTimeout(2*time.Second) && token.Error() != nil {
		return fmt.Errorf("publishing to %s: %w", topic, token.Error())
	}

	log.Printf("Published match for %s: %s (%.2f%%)",
		report.Source, report.Best.Name, report.Best.Percent)
	return nil
}

// publishCombined publishes the latest result of every source to the
// combined matches topic
func (p *Publisher) publishCombined() error {
	p.mu.RLock()
	reports := make([]*MatchReport, 0, len(p.reports))
	for _, r := range p.reports {
		reports = append(reports, r)
	}
	p.mu.RUnlock()

	if len(reports) == 0 {
		return nil
	}

	topic := fmt.Sprintf("%s/matches", p.publishPrefix)

	message := map[string]interface{}{
		"sources":   reports,
		"timestamp": time.Now().Unix(),
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshaling combined matches: %w", err)
	}

	token := p.client.Publish(topic, p.qos, p.retain, payload)
	if token.WaitTimeout(2*time.Second) && token.Error() != nil {
		return fmt.Errorf("publishing to %s: %w", topic, token.Error())
	}

	return nil
}

// GetReport returns the last published result for a source
func (p *Publisher) GetReport(source string) (*MatchReport, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	r, ok := p.reports[source]
	return r, ok
}

// ClearReport removes a source's last result (e.g., when it disconnects)
func (p *Publisher) ClearReport(source string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.reports, source)
}

// SetQoS sets the Quality of Service level for publishing (0, 1, or 2)
func (p *Publisher) SetQoS(qos byte) {
	if qos <= 2 {
		p.qos = qos
	}
}

// SetRetain sets whether published messages should be retained by the broker
func (p *Publisher) SetRetain(retain bool) {
	p.retain = retain
}

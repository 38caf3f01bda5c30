package db

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func initSecretsConfig(ctx context.Context) (*secretsmanager.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return secretsmanager.NewFromConfig(cfg), nil
}

// retrieveCredentials usa DB_USERNAME/DB_PASSWORD quando presentes e só
// consulta o Secrets Manager como fallback.
func retrieveCredentials(secretID string) (string, string, error) {
	secretUsername := os.Getenv("DB_USERNAME")
	secretPassword := os.Getenv("DB_PASSWORD")
	if secretUsername != "" && secretPassword != "" {
		return secretUsername, secretPassword, nil
	}

	ctx := context.Background()
	secrets, err := initSecretsConfig(ctx)
	if err != nil {
		return "", "", fmt.Errorf("carregar configuração AWS: %w", err)
	}

	input := &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(secretID),
		VersionStage: aws.String("AWSCURRENT"),
	}

	result, err := secrets.GetSecretValue(ctx, input)
	if err != nil {
		return "", "", fmt.Errorf("buscar segredo %q: %w", secretID, err)
	}

	var secret Credentials
	if err = json.Unmarshal([]byte(*result.SecretString), &secret); err != nil {
		return "", "", fmt.Errorf("decodificar segredo: %w", err)
	}

	return secret.Username, secret.Password, nil
}
